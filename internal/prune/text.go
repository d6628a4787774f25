// Package prune clips long extracted text to a prompt budget, keeping the
// opening and closing parts of the document.
package prune

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMarker   = "[...]"
	DefaultMaxBytes = 48 * 1024
	DefaultMaxLines = 600
)

// Budget bounds clipped output. Head and tail shares are taken from MaxBytes
// and MaxLines; the tail gets whatever the head does not.
type Budget struct {
	MaxBytes int
	MaxLines int
	// HeadShare is the fraction of the budget given to the head, in (0, 1].
	HeadShare float64
	Marker    string
}

func DefaultBudget() Budget {
	return Budget{MaxBytes: DefaultMaxBytes, MaxLines: DefaultMaxLines, HeadShare: 0.8, Marker: DefaultMarker}
}

// Exceeds reports whether s is over either limit.
func Exceeds(s string, maxBytes, maxLines int) bool {
	return len(s) > maxBytes || CountLines(s) > maxLines
}

func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// Clip returns s unchanged when it fits b, otherwise head + marker + tail.
// Cuts never split a UTF-8 sequence.
func Clip(s string, b Budget) string {
	b = b.normalize()
	if !Exceeds(s, b.MaxBytes, b.MaxLines) {
		return s
	}

	headBytes := int(float64(b.MaxBytes) * b.HeadShare)
	headLines := max(int(float64(b.MaxLines)*b.HeadShare), 1)
	head := boundedPrefix(s, headBytes, headLines)

	tailBytes := b.MaxBytes - len(head) - len(b.Marker) - 2
	tailLines := b.MaxLines - CountLines(head) - 1
	tail := boundedSuffix(s[len(head):], tailBytes, tailLines)

	if tail == "" {
		return head + "\n" + b.Marker
	}
	return head + "\n" + b.Marker + "\n" + tail
}

func (b Budget) normalize() Budget {
	if b.MaxBytes <= 0 {
		b.MaxBytes = DefaultMaxBytes
	}
	if b.MaxLines <= 0 {
		b.MaxLines = DefaultMaxLines
	}
	if b.HeadShare <= 0 || b.HeadShare > 1 {
		b.HeadShare = 0.8
	}
	if b.Marker == "" {
		b.Marker = DefaultMarker
	}
	return b
}

func boundedPrefix(s string, maxBytes, maxLines int) string {
	if len(s) == 0 || maxBytes <= 0 || maxLines <= 0 {
		return ""
	}
	return limitLinesPrefix(safeUTF8Prefix(s, min(maxBytes, len(s))), maxLines)
}

func boundedSuffix(s string, maxBytes, maxLines int) string {
	if len(s) == 0 || maxBytes <= 0 || maxLines <= 0 {
		return ""
	}
	return limitLinesSuffix(safeUTF8Suffix(s, min(maxBytes, len(s))), maxLines)
}

func safeUTF8Prefix(s string, maxBytes int) string {
	if maxBytes >= len(s) {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func safeUTF8Suffix(s string, maxBytes int) string {
	if maxBytes >= len(s) {
		return s
	}
	start := len(s) - maxBytes
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

func limitLinesPrefix(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}

func limitLinesSuffix(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
