package moderation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"
)

func (c ContentType) Valid() bool {
	return c == ContentTypePost || c == ContentTypeComment
}

type AgentLevel string

const (
	LevelPlatform  AgentLevel = "platform"
	LevelCategory  AgentLevel = "category"
	LevelCommunity AgentLevel = "community"
)

func (l AgentLevel) Valid() bool {
	return l == LevelPlatform || l == LevelCategory || l == LevelCommunity
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionFlagged  Decision = "flagged"
	DecisionRemoved  Decision = "removed"
	DecisionWarned   Decision = "warned"
)

// ParseDecision normalizes a raw decision string. Unknown values return an
// error so callers can fall back instead of persisting garbage.
func ParseDecision(raw string) (Decision, error) {
	d := Decision(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown moderation decision %q", raw)
	}
	return d, nil
}

func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionFlagged, DecisionRemoved, DecisionWarned:
		return true
	}
	return false
}

// Stricter returns true if d is a stricter outcome than other. The ordering
// is approved < warned < flagged < removed.
func (d Decision) Stricter(other Decision) bool {
	return d.rank() > other.rank()
}

func (d Decision) rank() int {
	switch d {
	case DecisionApproved:
		return 0
	case DecisionWarned:
		return 1
	case DecisionFlagged:
		return 2
	case DecisionRemoved:
		return 3
	}
	return -1
}

// Input is an immutable snapshot of the content under moderation. A fresh
// Input is constructed for every create and every edit.
type Input struct {
	ContentType    ContentType `json:"content_type"`
	Title          string      `json:"title,omitempty"`
	Body           string      `json:"body"`
	AuthorUsername string      `json:"author_username"`
	CommunityID    uuid.UUID   `json:"community_id"`
	CommunityName  string      `json:"community_name"`
}

// Text returns title and body joined for scanning. The title, when present,
// goes first so detectors see it in document order.
func (i Input) Text() string {
	if i.Title == "" {
		return i.Body
	}
	return i.Title + "\n" + i.Body
}

// CommunityContext is a read-only snapshot of the policy texts applicable to
// a community, fetched by the caller before invoking the pipeline. Versions
// tie every decision to the exact rule text that produced it.
type CommunityContext struct {
	CommunityID     uuid.UUID `json:"community_id"`
	CommunityName   string    `json:"community_name"`
	AIPrompt        string    `json:"ai_prompt"`
	PromptVersion   int       `json:"prompt_version"`
	CategoryRules   string    `json:"category_rules,omitempty"`
	CategoryVersion int       `json:"category_version,omitempty"`
}

// HasCategory reports whether the community belongs to a category that
// defines category-level rules.
func (c CommunityContext) HasCategory() bool {
	return c.CategoryRules != ""
}

// TierDecision is one immutable record per policy agent invocation.
// AIModel is empty when the heuristic fallback produced the decision instead
// of a model.
type TierDecision struct {
	AgentLevel        AgentLevel `json:"agent_level"`
	Decision          Decision   `json:"decision"`
	Confidence        float64    `json:"confidence"`
	Reasoning         string     `json:"reasoning"`
	AIModel           string     `json:"ai_model,omitempty"`
	PromptVersion     int        `json:"prompt_version"`
	ProcessingTimeMs  int64      `json:"processing_time_ms"`
	InjectionDetected bool       `json:"injection_detected"`
	InjectionPatterns []string   `json:"injection_patterns,omitempty"`
}

// PipelineResult aggregates the tier decisions of one moderation run.
// FinalDecision always equals the decision of the last tier that ran, and
// StoppedAtTier that tier's level. TotalTimeMs is wall-clock time measured
// across the whole run, not the sum of per-tier durations.
type PipelineResult struct {
	FinalDecision Decision       `json:"final_decision"`
	TierDecisions []TierDecision `json:"tier_decisions"`
	StoppedAtTier AgentLevel     `json:"stopped_at_tier"`
	TotalTimeMs   int64          `json:"total_time_ms"`
}

// LastTier returns the tier decision that produced the final outcome.
func (r PipelineResult) LastTier() TierDecision {
	return r.TierDecisions[len(r.TierDecisions)-1]
}
