package bridge

import "regexp"

// Screen flags commands that must never run unattended, regardless of the
// auto-approve setting. Model output is untrusted input; the patterns catch
// the obviously destructive shapes, not every possible one.
type Screen struct {
	patterns []*regexp.Regexp
}

// NewScreen creates a screen with the default destructive-command patterns.
func NewScreen() *Screen {
	patterns := []string{
		`(?i)\brm\s+(-[a-z]*\s+)*(-[a-z]*[rf][a-z]*\b|--recursive|--force)`,
		`(?i)\bmkfs(\.[a-z0-9]+)?\b`,
		`(?i)\bdd\b.*\bof=/dev/`,
		`(?i)>\s*/dev/sd[a-z]`,
		`(?i)\b(shutdown|reboot|halt|poweroff)\b`,
		`(?i)\bchmod\s+(-[a-z]+\s+)*777\s+/`,
		`(?i)\b(curl|wget)\b.*\|\s*(ba)?sh\b`,
		`:\(\)\s*\{.*\};\s*:`,
		`(?i)\bgit\s+push\s+.*--force\b`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &Screen{patterns: compiled}
}

// Dangerous reports whether the command matches a blocked pattern.
func (s *Screen) Dangerous(command string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(command) {
			return true
		}
	}
	return false
}
