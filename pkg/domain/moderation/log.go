package moderation

import (
	"time"

	"github.com/google/uuid"
)

// Log is one publicly-readable audit record per tier decision. Rows are
// append-only: they are inserted once and never updated.
type Log struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ContentType       ContentType  `json:"content_type" gorm:"index:idx_moderation_logs_content"`
	ContentID         uuid.UUID    `json:"content_id" gorm:"type:uuid;index:idx_moderation_logs_content"`
	CommunityID       uuid.UUID    `json:"community_id" gorm:"type:uuid;index"`
	AuthorID          uuid.UUID    `json:"author_id" gorm:"type:uuid;index"`
	AgentLevel        AgentLevel   `json:"agent_level"`
	Decision          Decision     `json:"decision"`
	Confidence        float64      `json:"confidence"`
	Reasoning         string       `json:"reasoning"`
	AIModel           string       `json:"ai_model"`
	PromptVersion     int          `json:"prompt_version"`
	ProcessingTimeMs  int64        `json:"processing_time_ms"`
	InjectionDetected bool         `json:"injection_detected"`
	InjectionPatterns PatternsJSON `json:"injection_patterns" gorm:"type:jsonb"`
	CreatedAt         time.Time    `json:"created_at"`
}

func (Log) TableName() string {
	return "moderation_logs"
}

// NewLog flattens a tier decision into an audit row.
func NewLog(contentType ContentType, contentID, communityID, authorID uuid.UUID, td TierDecision) *Log {
	return &Log{
		ID:                uuid.New(),
		ContentType:       contentType,
		ContentID:         contentID,
		CommunityID:       communityID,
		AuthorID:          authorID,
		AgentLevel:        td.AgentLevel,
		Decision:          td.Decision,
		Confidence:        td.Confidence,
		Reasoning:         td.Reasoning,
		AIModel:           td.AIModel,
		PromptVersion:     td.PromptVersion,
		ProcessingTimeMs:  td.ProcessingTimeMs,
		InjectionDetected: td.InjectionDetected,
		InjectionPatterns: td.InjectionPatterns,
		CreatedAt:         time.Now(),
	}
}
