package question

import "strings"

// Extract pulls the JSON object candidate out of raw model text: it trims
// the reply, drops ``` fences (with or without a language tag) and keeps
// everything from the first '{' to the last '}'. When no braces are found
// the cleaned text is returned as is and decoding fails later.
func Extract(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop the info string ("json", "JSON", ...) up to the first newline.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
