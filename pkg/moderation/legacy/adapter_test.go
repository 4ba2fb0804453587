package legacy

import (
	"testing"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPipelineResult_LastTierBecomesEffective(t *testing.T) {
	result := &moderation.PipelineResult{
		FinalDecision: moderation.DecisionRemoved,
		StoppedAtTier: moderation.LevelCommunity,
		TotalTimeMs:   42,
		TierDecisions: []moderation.TierDecision{
			{
				AgentLevel:    moderation.LevelPlatform,
				Decision:      moderation.DecisionApproved,
				Confidence:    0.95,
				Reasoning:     "no platform violations",
				AIModel:       "gpt-4o-mini",
				PromptVersion: 1,
			},
			{
				AgentLevel:    moderation.LevelCommunity,
				Decision:      moderation.DecisionRemoved,
				Confidence:    0.9,
				Reasoning:     "spam per community rules",
				AIModel:       "gpt-4o-mini",
				PromptVersion: 7,
			},
		},
	}

	d := FromPipelineResult(result)

	assert.Equal(t, moderation.DecisionRemoved, d.Decision)
	assert.InDelta(t, 0.9, d.Confidence, 0.0001)
	assert.Equal(t, "spam per community rules", d.Reasoning)
	assert.Equal(t, moderation.LevelCommunity, d.AgentLevel)
	assert.Equal(t, "gpt-4o-mini", d.AIModel)
	assert.Equal(t, 7, d.PromptVersion)
	assert.False(t, d.InjectionDetected)
	assert.Empty(t, d.InjectionPatterns)
	assert.Equal(t, result.TierDecisions, d.TierDecisions)
}

func TestFromPipelineResult_InjectionAggregatesAcrossTiers(t *testing.T) {
	// Injection seen at the platform tier must survive even though the
	// community tier produced the effective decision without detecting it.
	result := &moderation.PipelineResult{
		FinalDecision: moderation.DecisionFlagged,
		StoppedAtTier: moderation.LevelCommunity,
		TierDecisions: []moderation.TierDecision{
			{
				AgentLevel:        moderation.LevelPlatform,
				Decision:          moderation.DecisionApproved,
				InjectionDetected: true,
				InjectionPatterns: []string{"ignore_previous_instructions", "verdict_coercion"},
			},
			{
				AgentLevel:        moderation.LevelCategory,
				Decision:          moderation.DecisionApproved,
				InjectionDetected: true,
				InjectionPatterns: []string{"verdict_coercion", "system_prompt_override"},
			},
			{
				AgentLevel: moderation.LevelCommunity,
				Decision:   moderation.DecisionFlagged,
			},
		},
	}

	d := FromPipelineResult(result)

	assert.True(t, d.InjectionDetected)
	assert.Equal(t,
		[]string{"ignore_previous_instructions", "verdict_coercion", "system_prompt_override"},
		d.InjectionPatterns,
		"patterns dedupe preserving first-seen order")
	assert.Equal(t, moderation.DecisionFlagged, d.Decision)
}

func TestFromPipelineResult_FallbackModelStaysEmpty(t *testing.T) {
	result := &moderation.PipelineResult{
		FinalDecision: moderation.DecisionApproved,
		StoppedAtTier: moderation.LevelPlatform,
		TierDecisions: []moderation.TierDecision{
			{
				AgentLevel: moderation.LevelPlatform,
				Decision:   moderation.DecisionApproved,
				Confidence: 0.3,
				Reasoning:  "no issues detected by content filter",
			},
		},
	}

	d := FromPipelineResult(result)

	require.Empty(t, d.AIModel)
	assert.Equal(t, moderation.DecisionApproved, d.Decision)
}

func TestFromPipelineResult_Pure(t *testing.T) {
	result := &moderation.PipelineResult{
		FinalDecision: moderation.DecisionWarned,
		StoppedAtTier: moderation.LevelPlatform,
		TierDecisions: []moderation.TierDecision{
			{AgentLevel: moderation.LevelPlatform, Decision: moderation.DecisionWarned},
		},
	}

	first := FromPipelineResult(result)
	second := FromPipelineResult(result)

	assert.Equal(t, first, second)
}
