package prune

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClipLeavesShortTextAlone(t *testing.T) {
	t.Parallel()

	s := "หัวข้อข่าว\nเนื้อหาสั้น ๆ"
	assert.Equal(t, s, Clip(s, DefaultBudget()))
}

func TestClipKeepsHeadAndTail(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, strings.Repeat("ก", 10))
	}
	lines[0] = "FIRST"
	lines[99] = "LAST"
	s := strings.Join(lines, "\n")

	out := Clip(s, Budget{MaxBytes: 1 << 20, MaxLines: 20, HeadShare: 0.5})
	assert.True(t, strings.HasPrefix(out, "FIRST\n"))
	assert.True(t, strings.HasSuffix(out, "\nLAST"))
	assert.Contains(t, out, DefaultMarker)
	assert.LessOrEqual(t, CountLines(out), 20)
}

func TestClipNeverSplitsRunes(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("ภาษาไทย", 500)
	out := Clip(s, Budget{MaxBytes: 301, MaxLines: 10})
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), 301)
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("a"))
	assert.Equal(t, 3, CountLines("a\nb\nc"))
}
