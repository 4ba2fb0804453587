package agent

import (
	"fmt"
	"strings"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/valyala/fastjson"
)

type verdict struct {
	decision   moderation.Decision
	confidence float64
	reasoning  string
}

// parseVerdict extracts the structured decision from raw model output. Models
// occasionally wrap the JSON in prose or code fences, so we locate the
// outermost object before parsing. Unknown decision values are an error here;
// the caller maps any error to the fallback path, never to a passthrough.
func parseVerdict(raw string) (*verdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in classifier response")
	}

	v, err := fastjson.Parse(raw[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in classifier response: %w", err)
	}

	decision, err := moderation.ParseDecision(string(v.GetStringBytes("decision")))
	if err != nil {
		return nil, err
	}

	confidence := clamp(v.GetFloat64("confidence"), 0, 1)
	reasoning := string(v.GetStringBytes("reasoning"))

	return &verdict{
		decision:   decision,
		confidence: confidence,
		reasoning:  reasoning,
	}, nil
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
