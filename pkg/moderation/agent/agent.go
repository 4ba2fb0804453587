package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/fuega-ai/fuega/pkg/infra/classifier"
	"github.com/fuega-ai/fuega/pkg/moderation/injection"
	"github.com/sirupsen/logrus"
)

const (
	DefaultClassifierTimeout = 5 * time.Second

	breakerResetTimeout = 30 * time.Second
	breakerMaxFailures  = 5
)

// Request carries the tier-specific inputs for one agent invocation: which
// tier is being enforced, the rule text for that tier, and the version to
// stamp onto the resulting decision.
type Request struct {
	Level         moderation.AgentLevel
	RuleText      string
	PromptVersion int
	Input         moderation.Input
}

// PolicyAgent produces exactly one TierDecision per invocation. Evaluate
// never returns an error: classifier timeouts, network failures, malformed
// responses and open breakers all resolve to a heuristic fallback decision
// with an empty ai_model. That no-error guarantee is what lets the pipeline
// bound its total latency.
type PolicyAgent struct {
	client       classifier.Client
	clientConfig *classifier.Config
	detector     *injection.Detector
	filter       *heuristicFilter
	breaker      classifier.CircuitBreaker
	timeout      time.Duration
	logger       *logrus.Logger
}

func NewPolicyAgent(
	logger *logrus.Logger,
	client classifier.Client,
	clientConfig *classifier.Config,
	timeout time.Duration,
) *PolicyAgent {
	if timeout <= 0 {
		timeout = DefaultClassifierTimeout
	}
	return &PolicyAgent{
		client:       client,
		clientConfig: clientConfig,
		detector:     injection.NewDetector(),
		filter:       newHeuristicFilter(),
		breaker:      classifier.NewCircuitBreaker("classifier", breakerResetTimeout, breakerMaxFailures),
		timeout:      timeout,
		logger:       logger,
	}
}

func (a *PolicyAgent) Evaluate(ctx context.Context, req Request) moderation.TierDecision {
	start := time.Now()

	text := req.Input.Text()
	scan := a.detector.Scan(text)

	td := moderation.TierDecision{
		AgentLevel:        req.Level,
		PromptVersion:     req.PromptVersion,
		InjectionDetected: scan.Detected,
		InjectionPatterns: scan.Patterns,
	}

	result, model, err := a.classify(ctx, req)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"agent_level": req.Level,
			"community":   req.Input.CommunityName,
		}).Warn("classifier unavailable, using fallback filter")

		hv := a.filter.evaluate(text)
		td.Decision = hv.decision
		td.Confidence = hv.confidence
		td.Reasoning = hv.reasoning
	} else {
		td.Decision = result.decision
		td.Confidence = result.confidence
		td.Reasoning = result.reasoning
		td.AIModel = model
	}

	// Defense in depth: a classifier manipulated into approving must not
	// silently pass when the detector saw an injection attempt.
	if scan.Detected && moderation.DecisionFlagged.Stricter(td.Decision) {
		td.Decision = moderation.DecisionFlagged
		td.Reasoning = "Prompt injection attempt detected in content. " + td.Reasoning
	}

	td.ProcessingTimeMs = time.Since(start).Milliseconds()
	return td
}

func (a *PolicyAgent) classify(ctx context.Context, req Request) (result *verdict, model string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("classifier panicked: %v", r)
		}
	}()

	cfg := *a.clientConfig
	cfg.SystemPrompt = buildSystemPrompt(req.Level, req.RuleText)
	prompt := buildContentPrompt(req.Input)

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var resp *classifier.CompletionResponse
	err = a.breaker.Execute(func() error {
		r, askErr := a.client.Ask(callCtx, &cfg, prompt)
		if askErr != nil {
			return askErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	result, err = parseVerdict(resp.Response)
	if err != nil {
		return nil, "", fmt.Errorf("malformed classifier response: %w", err)
	}

	model = resp.Model
	if model == "" {
		model = cfg.Model
	}
	return result, model, nil
}
