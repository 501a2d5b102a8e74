package parser

import (
	"encoding/json"
	"regexp"
)

const maxRecommendations = 3

var (
	arrayPattern  = regexp.MustCompile(`\[[\s\S]*?\]`)
	quotedPattern = regexp.MustCompile(`"([^"]{20,})"`)
)

// ParseRecommendations extracts up to three recommendation strings from a reply. It returns
// an empty slice when nothing usable is found; callers substitute their own defaults.
func ParseRecommendations(raw string) []string {
	text := stripFence(raw)

	if recs, ok := decodeArray(text); ok {
		return recs
	}

	if span := arrayPattern.FindString(text); span != "" {
		if recs, ok := decodeArray(span); ok {
			return recs
		}
	}

	var quoted []string
	for _, m := range quotedPattern.FindAllStringSubmatch(text, maxRecommendations) {
		quoted = append(quoted, m[1])
	}
	if len(quoted) > 0 {
		return quoted
	}

	return []string{}
}

func decodeArray(text string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(text), &items); err != nil || items == nil {
		return nil, false
	}

	recs := make([]string, 0, min(len(items), maxRecommendations))
	for _, item := range items[:min(len(items), maxRecommendations)] {
		recs = append(recs, stringify(item))
	}
	return recs, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
