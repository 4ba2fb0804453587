package pipeline

import (
	"context"
	"time"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/fuega-ai/fuega/pkg/moderation/agent"
	"github.com/sirupsen/logrus"
)

// Config holds the pipeline-level policy inputs. PlatformPolicy is the global
// ToS text enforced at the platform tier; PlatformPolicyVersion is stamped on
// platform tier decisions.
type Config struct {
	PlatformPolicy        string
	PlatformPolicyVersion int
}

// Pipeline sequences the platform, category and community policy agents over
// one piece of content. Tiers run strictly in order; the platform tier always
// runs, the category tier runs only when category rules exist, and any
// non-approved decision halts the run immediately. The pipeline itself never
// fails: agent-level failures are already absorbed into fallback decisions,
// and there are no retries because moderation completes synchronously inside
// the content write path.
type Pipeline struct {
	agent  *agent.PolicyAgent
	config Config
	logger *logrus.Logger
}

func NewPipeline(logger *logrus.Logger, policyAgent *agent.PolicyAgent, config Config) *Pipeline {
	if config.PlatformPolicy == "" {
		config.PlatformPolicy = agent.DefaultPlatformPolicy
	}
	return &Pipeline{
		agent:  policyAgent,
		config: config,
		logger: logger,
	}
}

// Run moderates one input against up to three tiers of policy and returns the
// aggregated result. TotalTimeMs is wall-clock time for the whole run.
func (p *Pipeline) Run(ctx context.Context, input moderation.Input, community moderation.CommunityContext) *moderation.PipelineResult {
	start := time.Now()

	tiers := p.eligibleTiers(community)
	decisions := make([]moderation.TierDecision, 0, len(tiers))

	for _, tier := range tiers {
		td := p.agent.Evaluate(ctx, agent.Request{
			Level:         tier.level,
			RuleText:      tier.ruleText,
			PromptVersion: tier.promptVersion,
			Input:         input,
		})
		decisions = append(decisions, td)

		if td.Decision != moderation.DecisionApproved {
			break
		}
	}

	last := decisions[len(decisions)-1]
	result := &moderation.PipelineResult{
		FinalDecision: last.Decision,
		TierDecisions: decisions,
		StoppedAtTier: last.AgentLevel,
		TotalTimeMs:   time.Since(start).Milliseconds(),
	}

	p.logger.WithFields(logrus.Fields{
		"content_type":    input.ContentType,
		"community":       community.CommunityName,
		"final_decision":  result.FinalDecision,
		"stopped_at_tier": result.StoppedAtTier,
		"tiers_run":       len(decisions),
		"total_time_ms":   result.TotalTimeMs,
	}).Info("moderation pipeline completed")

	return result
}

type tierSpec struct {
	level         moderation.AgentLevel
	ruleText      string
	promptVersion int
}

// eligibleTiers builds the ordered tier list for a community. Skipped tiers
// are not run and not recorded.
func (p *Pipeline) eligibleTiers(community moderation.CommunityContext) []tierSpec {
	tiers := []tierSpec{
		{
			level:         moderation.LevelPlatform,
			ruleText:      p.config.PlatformPolicy,
			promptVersion: p.config.PlatformPolicyVersion,
		},
	}

	if community.HasCategory() {
		tiers = append(tiers, tierSpec{
			level:         moderation.LevelCategory,
			ruleText:      community.CategoryRules,
			promptVersion: community.CategoryVersion,
		})
	}

	tiers = append(tiers, tierSpec{
		level:         moderation.LevelCommunity,
		ruleText:      community.AIPrompt,
		promptVersion: community.PromptVersion,
	})

	return tiers
}
