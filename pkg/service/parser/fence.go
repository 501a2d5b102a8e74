package parser

import "strings"

const fence = "```"

// stripFence returns the content of the first markdown code block. A ```json block takes
// precedence over a bare one; text without fences is returned trimmed.
func stripFence(text string) string {
	if _, after, ok := strings.Cut(text, fence+"json"); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}

	if parts := strings.Split(text, fence); len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}

	return strings.TrimSpace(text)
}

// stripControl replaces C0 and C1 control characters with spaces so that raw newlines
// inside string values no longer break decoding.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0x1f || (r >= 0x7f && r <= 0x9f) {
			return ' '
		}
		return r
	}, s)
}
