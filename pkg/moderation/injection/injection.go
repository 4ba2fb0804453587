package injection

import (
	"regexp"
	"sort"
)

// Pattern identifiers recorded on tier decisions. Stable values: they end up
// in the public moderation log.
const (
	IgnorePreviousInstructions = "ignore_previous_instructions"
	SystemPromptOverride       = "system_prompt_override"
	RolePlayJailbreak          = "role_play_jailbreak"
	PromptExtraction           = "prompt_extraction"
	DelimiterEscape            = "delimiter_escape"
	InstructionSmuggling       = "instruction_smuggling"
	VerdictCoercion            = "verdict_coercion"
)

var injectionPatterns = map[string]*regexp.Regexp{
	IgnorePreviousInstructions: regexp.MustCompile(`(?i)(` +
		`ignore\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|rules|directives)|` +
		`disregard\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier|your)\s+(?:instructions|prompts|rules|directives)|` +
		`forget\s+(?:everything|all)\s+(?:above|before|you\s+were\s+told)|` +
		`do\s+not\s+follow\s+(?:the\s+)?(?:previous|above|system)\s+(?:instructions|rules)` +
		`)`),

	SystemPromptOverride: regexp.MustCompile(`(?i)(` +
		`(?:^|\n)\s*system\s*[:>]|` +
		`<\s*/?\s*system\s*>|` +
		`\[\s*system\s*\]|` +
		`you\s+are\s+now\s+(?:a|an|the)\s+|` +
		`new\s+system\s+prompt|` +
		`your\s+(?:new\s+)?instructions\s+are|` +
		`override\s+(?:the\s+)?system\s+prompt` +
		`)`),

	RolePlayJailbreak: regexp.MustCompile(`(?i)(` +
		`pretend\s+(?:you\s+are|to\s+be)\s+|` +
		`act\s+as\s+(?:if\s+you\s+(?:are|were)|a|an)\s+|` +
		`roleplay\s+as|` +
		`\bDAN\s+mode\b|` +
		`jailbreak|` +
		`developer\s+mode\s+enabled|` +
		`you\s+have\s+no\s+(?:restrictions|rules|guidelines|filters)` +
		`)`),

	PromptExtraction: regexp.MustCompile(`(?i)(` +
		`(?:repeat|print|show|reveal|output)\s+(?:your|the)\s+(?:system\s+)?(?:prompt|instructions)|` +
		`what\s+(?:are|were)\s+your\s+(?:initial\s+)?instructions|` +
		`tell\s+me\s+your\s+(?:system\s+)?prompt` +
		`)`),

	DelimiterEscape: regexp.MustCompile(`(?i)(` +
		"```\\s*(?:system|instructions?)|" +
		`---+\s*end\s+of\s+(?:user\s+)?(?:content|input|data)\s*---+|` +
		`<\s*/?\s*(?:instructions?|prompt|rules)\s*>|` +
		`\[\s*end\s+(?:of\s+)?(?:content|input|data)\s*\]` +
		`)`),

	InstructionSmuggling: regexp.MustCompile(`(?i)(` +
		`(?:^|\n)\s*(?:assistant|ai|model)\s*:|` +
		`when\s+(?:moderating|reviewing|classifying)\s+this|` +
		`(?:the\s+)?moderator\s+(?:must|should|will)\s+(?:approve|allow|pass)|` +
		`this\s+(?:post|comment|content)\s+(?:has\s+been|was)\s+(?:pre-?approved|verified)` +
		`)`),

	VerdictCoercion: regexp.MustCompile(`(?i)(` +
		`(?:respond|reply|answer)\s+(?:only\s+)?with\s+["']?approved|` +
		`(?:approve|allow)\s+this\s+(?:post|comment|content|message)|` +
		`(?:set|mark|classify)\s+(?:the\s+)?decision\s+(?:as|to)\s+["']?approved|` +
		`return\s+["']?\{?\s*["']?decision["']?\s*:\s*["']?approved` +
		`)`),
}

// Result of a single scan. Patterns is nil when nothing matched.
type Result struct {
	Detected bool     `json:"detected"`
	Patterns []string `json:"patterns,omitempty"`
}

// Detector scans raw user text for prompt-injection attempts. Scans are
// deterministic, side-effect free and never touch the network.
type Detector struct {
	patterns map[string]*regexp.Regexp
}

func NewDetector() *Detector {
	return &Detector{patterns: injectionPatterns}
}

// Scan checks text against every known pattern and returns the matched
// pattern identifiers in a stable order. Unmatched or empty input yields
// Detected=false with no patterns.
func (d *Detector) Scan(text string) Result {
	if text == "" {
		return Result{}
	}

	var matched []string
	for id, pattern := range d.patterns {
		if pattern.MatchString(text) {
			matched = append(matched, id)
		}
	}
	if len(matched) == 0 {
		return Result{}
	}

	// Map iteration order is random; keep the audit trail deterministic.
	sort.Strings(matched)

	return Result{
		Detected: true,
		Patterns: matched,
	}
}
