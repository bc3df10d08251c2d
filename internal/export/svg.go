// Package export renders stored runs to image formats.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/san-kum/steersim/internal/output"
)

// Palette colors movers in id order.
var Palette = []string{"#00ff88", "#ff4444", "#00ccff", "#ffcc00", "#ff00ff", "#88ff00", "#ff8800"}

// Bounds is a world-space rectangle.
type Bounds struct {
	r2.Rect
}

func NewBounds(minX, maxX, minY, maxY float64) Bounds {
	return Bounds{r2.RectFromPoints(r2.Point{X: minX, Y: minY}, r2.Point{X: maxX, Y: maxY})}
}

// Project maps world (x, y) into a w by h image with y pointing down.
func (b Bounds) Project(x, y float64, w, h int) (float64, float64) {
	px := (x - b.X.Lo) / b.X.Length() * float64(w)
	py := float64(h) - (y-b.Y.Lo)/b.Y.Length()*float64(h)
	return px, py
}

// SceneBounds covers every sample, path point and line end, padded by 10%.
func SceneBounds(samples []output.Trajectory, paths []output.Polyline, lines []output.Segment) Bounds {
	rect := r2.EmptyRect()
	for _, s := range samples {
		rect = rect.AddPoint(r2.Point{X: s.PosX, Y: s.PosY})
	}
	for _, p := range paths {
		for _, pt := range p.Points {
			rect = rect.AddPoint(r2.Point{X: pt.X(), Y: pt.Y()})
		}
	}
	for _, l := range lines {
		rect = rect.AddPoint(r2.Point{X: l.From.X(), Y: l.From.Y()})
		rect = rect.AddPoint(r2.Point{X: l.To.X(), Y: l.To.Y()})
	}
	if rect.IsEmpty() {
		rect = r2.RectFromPoints(r2.Point{})
	}

	size := rect.Size()
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	return Bounds{rect.Expanded(size.Mul(0.1))}
}

// GroupByMover splits samples per mover, keeping time order, and returns the
// mover ids sorted.
func GroupByMover(samples []output.Trajectory) (map[int][]output.Trajectory, []int) {
	byMover := make(map[int][]output.Trajectory)
	for _, s := range samples {
		byMover[s.MoverID] = append(byMover[s.MoverID], s)
	}
	ids := make([]int, 0, len(byMover))
	for id := range byMover {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return byMover, ids
}

// SceneToSVG draws every mover's trajectory over the run's paths and lines.
func SceneToSVG(samples []output.Trajectory, paths []output.Polyline, lines []output.Segment, width, height int) string {
	if len(samples) == 0 && len(paths) == 0 && len(lines) == 0 {
		return ""
	}
	b := SceneBounds(samples, paths, lines)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, p := range paths {
		sb.WriteString(`<path fill="none" stroke="#666688" stroke-width="1" stroke-dasharray="4 3" d="`)
		for i, pt := range p.Points {
			writePoint(&sb, b, i, pt.X(), pt.Y(), width, height)
		}
		sb.WriteString("\"/>\n")
	}

	for _, l := range lines {
		x1, y1 := b.Project(l.From.X(), l.From.Y(), width, height)
		x2, y2 := b.Project(l.To.X(), l.To.Y(), width, height)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ffffff" stroke-width="1"/>
`, x1, y1, x2, y2))
	}

	byMover, ids := GroupByMover(samples)
	for i, id := range ids {
		color := Palette[i%len(Palette)]
		track := byMover[id]
		sb.WriteString(fmt.Sprintf(`<g id="mover-%d">
<path fill="none" stroke="%s" stroke-width="1.5" d="`, id, color))
		for j, s := range track {
			writePoint(&sb, b, j, s.PosX, s.PosY, width, height)
		}
		sb.WriteString("\"/>\n")

		end := track[len(track)-1]
		cx, cy := b.Project(end.PosX, end.PosY, width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
</g>
`, cx, cy, color))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePoint(sb *strings.Builder, b Bounds, i int, x, y float64, w, h int) {
	px, py := b.Project(x, y, w, h)
	if i == 0 {
		sb.WriteString(fmt.Sprintf("M%.1f,%.1f", px, py))
	} else {
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
	}
}
