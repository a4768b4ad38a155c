package domain

import (
	"strings"
	"unicode"
)

// SanitizeTitle strips newlines, trims surrounding whitespace and truncates
// to max runes. Returns "" when nothing printable survives.
func SanitizeTitle(title string, max int) string {
	title = strings.NewReplacer("\r", " ", "\n", " ").Replace(title)
	title = strings.TrimSpace(title)
	return TruncateRunes(title, max)
}

// TitleFromContent derives a session title from the first user message:
// whitespace runs collapsed, truncated with an ellipsis when over budget.
func TitleFromContent(content string, max int) string {
	content = strings.Join(strings.Fields(content), " ")
	if len([]rune(content)) <= max {
		return content
	}
	return strings.TrimSpace(TruncateRunes(content, max-1)) + "…"
}

// SanitizeSystemPrompt removes control characters other than newline and
// tab, then clamps to max runes.
func SanitizeSystemPrompt(prompt string, max int) string {
	prompt = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, prompt)
	return TruncateRunes(strings.TrimSpace(prompt), max)
}

// TruncateRunes cuts s to at most max runes without splitting a code point.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
