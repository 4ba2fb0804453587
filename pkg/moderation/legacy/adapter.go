// Package legacy maps the multi-tier pipeline result onto the single-decision
// shape consumed by the original post/comment write paths.
package legacy

import (
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
)

// Decision is the backward-compatible moderation shape. Injection fields
// aggregate across ALL tiers, not just the one that produced the effective
// decision.
type Decision struct {
	Decision          moderation.Decision       `json:"decision"`
	Confidence        float64                   `json:"confidence"`
	Reasoning         string                    `json:"reasoning"`
	AgentLevel        moderation.AgentLevel     `json:"agent_level"`
	AIModel           string                    `json:"ai_model,omitempty"`
	PromptVersion     int                       `json:"prompt_version"`
	InjectionDetected bool                      `json:"injection_detected"`
	InjectionPatterns []string                  `json:"injection_patterns,omitempty"`
	TierDecisions     []moderation.TierDecision `json:"tier_decisions,omitempty"`
}

// FromPipelineResult is a pure function: no I/O and no failure modes. The
// last tier decision becomes the effective one.
func FromPipelineResult(result *moderation.PipelineResult) Decision {
	last := result.LastTier()

	detected := false
	var patterns []string
	seen := make(map[string]bool)
	for _, td := range result.TierDecisions {
		if td.InjectionDetected {
			detected = true
		}
		for _, p := range td.InjectionPatterns {
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}
	}

	return Decision{
		Decision:          last.Decision,
		Confidence:        last.Confidence,
		Reasoning:         last.Reasoning,
		AgentLevel:        last.AgentLevel,
		AIModel:           last.AIModel,
		PromptVersion:     last.PromptVersion,
		InjectionDetected: detected,
		InjectionPatterns: patterns,
		TierDecisions:     result.TierDecisions,
	}
}
