package classifier

import "strings"

func FormatRules(rules []string) string {
	if len(rules) == 0 {
		return "[Rules]\n"
	}

	var b strings.Builder
	b.WriteString("[Rules]\n")
	for _, rule := range rules {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	return b.String()
}
