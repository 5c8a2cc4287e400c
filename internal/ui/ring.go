package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/disklens/internal/ui/styles"
	"github.com/fenilsonani/disklens/pkg/humanize"
)

// renderRing draws the ring chart for the current directory. It consumes
// the same sorted entry list as the file list, so sector order and colors
// line up with the rows next to it. Cells are about twice as tall as they
// are wide, hence the 0.5 vertical aspect correction.
func renderRing(entries []Entry, selected int, total int64, width, height int) string {
	if width < 10 || height < 5 {
		return styles.DimStyle.Render("(too small)")
	}

	// Leave a line for the center label under the ring.
	gridH := height - 1
	gridW := width
	if gridW > gridH*2 {
		gridW = gridH * 2
	}

	cx := float64(gridW) / 2
	cy := float64(gridH) / 2
	outer := math.Min(cx, cy/0.5) // radius in column units

	// Cumulative sector boundaries in [0,1).
	bounds := make([]float64, 0, len(entries))
	var cum float64
	for _, e := range entries {
		if total > 0 {
			cum += float64(e.Size) / float64(total)
		}
		bounds = append(bounds, cum)
	}

	var b strings.Builder
	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			dx := float64(x) + 0.5 - cx
			dy := (float64(y) + 0.5 - cy) / 0.5
			r := math.Sqrt(dx*dx + dy*dy)

			if r > outer || r < outer*0.45 || total == 0 || len(entries) == 0 {
				b.WriteByte(' ')
				continue
			}

			// Angle from 12 o'clock, clockwise, normalized to [0,1).
			frac := math.Atan2(dx, -dy) / (2 * math.Pi)
			if frac < 0 {
				frac += 1
			}

			sector := len(bounds) - 1
			for i, bound := range bounds {
				if frac < bound {
					sector = i
					break
				}
			}

			style := lipgloss.NewStyle().Foreground(styles.SectorColors[sector%len(styles.SectorColors)])
			if sector == selected {
				style = style.Bold(true)
			}
			b.WriteString(style.Render("█"))
		}
		b.WriteByte('\n')
	}

	label := humanize.Bytes(total)
	pad := (gridW - lipgloss.Width(label)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(styles.BoldStyle.Render(label))

	return b.String()
}

// sectorDot returns the colored legend marker aligning a list row with
// its ring sector.
func sectorDot(i int) string {
	style := lipgloss.NewStyle().Foreground(styles.SectorColors[i%len(styles.SectorColors)])
	return style.Render("●")
}

// legendLine is used by tests to check color/label pairing.
func legendLine(e Entry, i int) string {
	return fmt.Sprintf("%s %s %s", sectorDot(i), e.Name, humanize.Bytes(e.Size))
}
