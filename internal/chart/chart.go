// Package chart renders a meal's macro breakdown as a pie chart image.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lipoout/fiton-bot/internal/models"
)

var (
	backgroundColor = drawing.ColorFromHex("2e3b4e")
	carbColor       = drawing.ColorFromHex("ffcc00")
	proteinColor    = drawing.ColorFromHex("ff6666")
	fatColor        = drawing.ColorFromHex("66b3ff")
)

// Render produces a PNG pie chart of the carb/protein/fat masses with
// per-slice percentage labels and the total calories as the title.
// An all-zero record renders an even three-way chart labeled 0.0%.
func Render(n models.Nutrition) ([]byte, error) {
	type slice struct {
		name  string
		grams float64
		color drawing.Color
	}
	slices := []slice{
		{name: "Carbs", grams: n.Carbs, color: carbColor},
		{name: "Protein", grams: n.Protein, color: proteinColor},
		{name: "Fats", grams: n.Fat, color: fatColor},
	}

	total := n.Carbs + n.Protein + n.Fat
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		pct := 0.0
		weight := 1.0 // equal slices when every mass is zero
		if total > 0 {
			pct = s.grams / total * 100
			weight = s.grams
		}
		values = append(values, chart.Value{
			Value: weight,
			Label: fmt.Sprintf("%s %.0fg %.1f%%", s.name, s.grams, pct),
			Style: chart.Style{
				FillColor: s.color,
				FontColor: drawing.ColorWhite,
			},
		})
	}

	pie := chart.PieChart{
		Title: fmt.Sprintf("%.0f Cal", n.Calories),
		TitleStyle: chart.Style{
			FontSize:  20,
			FontColor: drawing.ColorWhite,
		},
		Width:      512,
		Height:     512,
		Background: chart.Style{FillColor: backgroundColor},
		Canvas:     chart.Style{FillColor: backgroundColor},
		Values:     values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render nutrition chart: %w", err)
	}
	return buf.Bytes(), nil
}
