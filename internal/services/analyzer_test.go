package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreviewShortTextUnchanged(t *testing.T) {
	a := &analyzerService{previewLength: 100}

	assert.Equal(t, "short resume text", a.preview("short resume text"))
	assert.Equal(t, "", a.preview(""))
}

func TestPreviewTruncatesLongText(t *testing.T) {
	a := &analyzerService{previewLength: 10}

	out := a.preview(strings.Repeat("x", 50))

	assert.Equal(t, "xxxxxxxxxx...", out)
}

func TestPreviewNeverSplitsRunes(t *testing.T) {
	// Mixed 1-3 byte runes, so most byte-indexed cuts land mid-rune.
	text := strings.Repeat("résumé — 简历 ", 20)

	for length := 1; length < 40; length++ {
		a := &analyzerService{previewLength: length}
		out := a.preview(text)

		assert.True(t, utf8.ValidString(out), "previewLength %d produced invalid UTF-8", length)
		assert.True(t, strings.HasSuffix(out, "..."))
		assert.LessOrEqual(t, len(out), length+3)
	}
}
