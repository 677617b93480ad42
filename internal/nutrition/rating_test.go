package nutrition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRating(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "plain", text: "Health rating 7 🌟", want: 7},
		{name: "bold", text: "**Health rating** 9 🌟", want: 9},
		{name: "extra whitespace", text: "Health rating   3  🌟", want: 3},
		{name: "no glyph", text: "Health rating 7", want: 0},
		{name: "absent", text: "這份餐點很均衡。", want: 0},
		{name: "empty", text: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRating(tt.text))
		})
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{name: "zero", n: 0, want: "⚫⚫⚫⚫⚫⚫⚫⚫⚫⚫"},
		{name: "seven", n: 7, want: "🌟🌟🌟🌟🌟🌟🌟⚫⚫⚫"},
		{name: "full", n: 10, want: "🌟🌟🌟🌟🌟🌟🌟🌟🌟🌟"},
		{name: "clamped low", n: -2, want: "⚫⚫⚫⚫⚫⚫⚫⚫⚫⚫"},
		{name: "clamped high", n: 14, want: "🌟🌟🌟🌟🌟🌟🌟🌟🌟🌟"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stars(tt.n))
		})
	}
}

func TestNormalizeRating(t *testing.T) {
	text := "好的選擇！Health rating 7 🌟\n繼續保持。"
	got := NormalizeRating(text, 7, Stars(7))
	assert.Contains(t, got, "**Health rating** 7/10 🌟🌟🌟🌟🌟🌟🌟⚫⚫⚫")
	assert.True(t, strings.HasSuffix(got, "\n繼續保持。"))
}

func TestNormalizeRatingIdempotent(t *testing.T) {
	text := "**Health rating** 7 🌟 不錯的一餐。"
	once := NormalizeRating(text, 7, Stars(7))
	twice := NormalizeRating(once, 7, Stars(7))
	assert.Equal(t, once, twice)
}

func TestNormalizeRatingAbsent(t *testing.T) {
	text := "這份餐點沒有評分。"
	assert.Equal(t, text, NormalizeRating(text, 0, Stars(0)))
}

func TestNormalizeRatingWithoutGlyphUntouched(t *testing.T) {
	// A reply missing the glyph is an extraction miss; the text must come
	// through byte for byte, newline included.
	text := "**Health rating** 7\n營養均衡。"
	assert.Equal(t, text, NormalizeRating(text, ExtractRating(text), Stars(ExtractRating(text))))
}
