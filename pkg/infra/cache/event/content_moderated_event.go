package event

import (
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/google/uuid"
)

// ContentModeratedEvent is published after a moderation run completes.
// Consumers (notification fan-out, feed invalidation) treat it as
// best-effort: publication failures never fail the originating request.
type ContentModeratedEvent struct {
	ContentType   moderation.ContentType `json:"content_type"`
	ContentID     uuid.UUID              `json:"content_id"`
	CommunityID   uuid.UUID              `json:"community_id"`
	AuthorID      uuid.UUID              `json:"author_id"`
	FinalDecision moderation.Decision    `json:"final_decision"`
	StoppedAtTier moderation.AgentLevel  `json:"stopped_at_tier"`
	TiersRun      int                    `json:"tiers_run"`
	TotalTimeMs   int64                  `json:"total_time_ms"`
}

func (e ContentModeratedEvent) Type() string {
	return ContentModeratedEventType
}
