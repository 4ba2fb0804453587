package agent

import (
	"regexp"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
)

// heuristicFilter is the deterministic safety net used when the classifier is
// unavailable, times out, or returns something unparseable. It fails open:
// content that matches nothing is approved so a classifier outage never
// blocks the platform from accepting posts.
type heuristicFilter struct {
	removePatterns []*regexp.Regexp
	flagPatterns   []*regexp.Regexp
}

func newHeuristicFilter() *heuristicFilter {
	return &heuristicFilter{
		removePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:kill|hurt|attack)\s+(?:you|him|her|them|yourself)\b`),
			regexp.MustCompile(`(?i)\b(?:child|minor|underage)\s*(?:porn|sexual)`),
			regexp.MustCompile(`(?i)(?:home\s+address|phone\s+number)\s+(?:of|for)\s+@?\w+\s+is\b`),
		},
		flagPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:buy|order|claim)\s+(?:now|today)\b.{0,40}(?:https?://|www\.)`),
			regexp.MustCompile(`(?i)\b(?:free\s+money|get\s+rich|guaranteed\s+returns|limited\s+offer)\b`),
			regexp.MustCompile(`(?i)\b(?:crypto|forex|nft)\s+(?:course|signals|giveaway)\b`),
			regexp.MustCompile(`(?i)(?:https?://\S+\s*){4,}`),
		},
	}
}

type heuristicVerdict struct {
	decision   moderation.Decision
	confidence float64
	reasoning  string
}

// evaluate classifies text with the static pattern sets. Confidence is kept
// deliberately low so downstream consumers can tell heuristic decisions from
// model decisions even before checking ai_model.
func (f *heuristicFilter) evaluate(text string) heuristicVerdict {
	for _, p := range f.removePatterns {
		if p.MatchString(text) {
			return heuristicVerdict{
				decision:   moderation.DecisionRemoved,
				confidence: 0.5,
				reasoning:  "Removed by baseline safety filter while AI moderation was unavailable.",
			}
		}
	}
	for _, p := range f.flagPatterns {
		if p.MatchString(text) {
			return heuristicVerdict{
				decision:   moderation.DecisionFlagged,
				confidence: 0.4,
				reasoning:  "Flagged by baseline safety filter while AI moderation was unavailable.",
			}
		}
	}
	return heuristicVerdict{
		decision:   moderation.DecisionApproved,
		confidence: 0.3,
		reasoning:  "Approved by baseline safety filter while AI moderation was unavailable.",
	}
}
