// Package bridge gates execution of command directives embedded in
// assistant output behind an approval step.
package bridge

import (
	"regexp"
	"strings"
)

// Command directives are line-anchored: `EXECUTE: <command>`.
var directivePattern = regexp.MustCompile(`(?m)^[ \t]*EXECUTE:[ \t]*(\S.*?)[ \t]*$`)

// SegmentKind tags a parsed segment of assistant output.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentDirective
)

// Segment is one piece of a finalized assistant message: plain text, or a
// command directive with the extracted command.
type Segment struct {
	Kind    SegmentKind
	Text    string
	Command string
}

// Parse splits finalized message content into an ordered sequence of text
// and directive segments. Parsing once per message keeps detection logic
// separate from the gate and independently testable.
func Parse(content string) []Segment {
	var segments []Segment
	rest := content

	for {
		loc := directivePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if text := rest[:loc[0]]; strings.TrimSpace(text) != "" {
			segments = append(segments, Segment{Kind: SegmentText, Text: text})
		}
		segments = append(segments, Segment{
			Kind:    SegmentDirective,
			Text:    rest[loc[0]:loc[1]],
			Command: rest[loc[2]:loc[3]],
		})
		rest = rest[loc[1]:]
	}

	if strings.TrimSpace(rest) != "" {
		segments = append(segments, Segment{Kind: SegmentText, Text: rest})
	}
	return segments
}

// FirstCommand returns the command of the first directive in the content,
// if any.
func FirstCommand(content string) (string, bool) {
	for _, seg := range Parse(content) {
		if seg.Kind == SegmentDirective {
			return seg.Command, true
		}
	}
	return "", false
}
