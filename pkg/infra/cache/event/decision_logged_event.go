package event

import (
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/google/uuid"
)

// DecisionLoggedEvent announces that one tier decision reached the public
// audit log.
type DecisionLoggedEvent struct {
	LogID       uuid.UUID             `json:"log_id"`
	ContentID   uuid.UUID             `json:"content_id"`
	CommunityID uuid.UUID             `json:"community_id"`
	AgentLevel  moderation.AgentLevel `json:"agent_level"`
	Decision    moderation.Decision   `json:"decision"`
}

func (e DecisionLoggedEvent) Type() string {
	return DecisionLoggedEventType
}
