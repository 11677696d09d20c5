package render

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is cycled when there are more categories than colours.
var Palette = []string{"#7ec8c1", "#8b8b8b", "#f39c12", "#3498db", "#9b59b6", "#e74c3c", "#2ecc71", "#f1c40f"}

// Series colours of the trend chart.
const (
	ColorIncome  = "#2d7a6f"
	ColorExpense = "#e74c3c"
	ColorInvest  = "#f1c40f"
)

// Colors returns n palette colours, wrapping around.
func Colors(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = Palette[i%len(Palette)]
	}
	return out
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
