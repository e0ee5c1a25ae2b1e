package viz

import (
	"fmt"
	"strings"
)

// CanvasToSVG draws every lit Braille dot of c as an SVG circle, scale
// units apart.
func CanvasToSVG(c *Canvas, scale float64, color string) string {
	if c == nil {
		return ""
	}

	width := float64(c.DotsWide()) * scale
	height := float64(c.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	r := scale * 0.4
	for y := 0; y < c.DotsHigh(); y++ {
		for x := 0; x < c.DotsWide(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}
