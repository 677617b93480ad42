package nutrition

import (
	"regexp"
	"strconv"

	"github.com/lipoout/fiton-bot/internal/models"
)

// The analysis prompt instructs the model to report every estimate with a
// fixed introductory phrase and unit token. Each field is matched
// independently; a missing field stays zero.
var (
	caloriePattern = regexp.MustCompile(`總熱量估計為.*?(\d+\.?\d*)\s*大卡`)
	carbPattern    = regexp.MustCompile(`總碳水估計為.*?(\d+\.?\d*)\s*克`)
	proteinPattern = regexp.MustCompile(`總蛋白質估計為.*?(\d+\.?\d*)\s*克`)
	fatPattern     = regexp.MustCompile(`總脂肪估計為.*?(\d+\.?\d*)\s*克`)
)

// Extract pulls the four nutrition estimates out of a model response.
// It never fails; malformed input yields an all-zero record.
func Extract(text string) models.Nutrition {
	return models.Nutrition{
		Calories: matchNumber(caloriePattern, text),
		Carbs:    matchNumber(carbPattern, text),
		Protein:  matchNumber(proteinPattern, text),
		Fat:      matchNumber(fatPattern, text),
	}
}

func matchNumber(p *regexp.Regexp, text string) float64 {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
