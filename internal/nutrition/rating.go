package nutrition

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxRating = 10

// extractRatingPattern requires the decorative glyph after the number, the
// way the model is prompted to emit it. The optional ** markers cover both
// plain and bold renderings.
var (
	extractRatingPattern = regexp.MustCompile(`\*{0,2}Health rating\*{0,2}\s*(\d+)\s*🌟`)
	// normalizeRatingPattern requires the glyph like the extract pattern, so
	// a reply that omits it (an extraction miss) is never rewritten. The
	// optional "/10" capture makes a second run leave normalized text alone.
	normalizeRatingPattern = regexp.MustCompile(`\*{0,2}Health rating\*{0,2}\s*(\d+)(/10)?\s*🌟`)
)

// ExtractRating finds the 0-10 health rating in a model response, or 0 when
// the rating line is absent.
func ExtractRating(text string) int {
	m := extractRatingPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Stars renders n filled glyphs followed by 10-n empty ones. Values outside
// [0,10] are clamped.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > maxRating {
		n = maxRating
	}
	return strings.Repeat("🌟", n) + strings.Repeat("⚫", maxRating-n)
}

// NormalizeRating rewrites the rating span into "**Health rating** N/10"
// followed by the star bar. Spans that already carry the "/10" suffix are
// left alone, so the substitution is idempotent.
func NormalizeRating(text string, rating int, stars string) string {
	return normalizeRatingPattern.ReplaceAllStringFunc(text, func(match string) string {
		m := normalizeRatingPattern.FindStringSubmatch(match)
		if m[2] == "/10" {
			return match
		}
		return fmt.Sprintf("**Health rating** %d/10 %s", rating, stars)
	})
}
