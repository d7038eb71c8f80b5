package heatmap

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// upperHalf paints the top pixel as foreground and the bottom as background,
// giving two square-ish pixels per terminal cell.
const upperHalf = "▀"

// Render draws img as half-block art that fits within cols x rows cells.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	fitted := imaging.Fit(img, cols, rows*2, imaging.Lanczos)
	bounds := fitted.Bounds()

	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			b.WriteByte('\n')
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := fitted.NRGBAAt(x, y)
			style := lipgloss.NewStyle().Foreground(hexColor(top.R, top.G, top.B))
			if y+1 < bounds.Max.Y {
				bottom := fitted.NRGBAAt(x, y+1)
				style = style.Background(hexColor(bottom.R, bottom.G, bottom.B))
			}
			b.WriteString(style.Render(upperHalf))
		}
	}
	return b.String()
}

func hexColor(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
