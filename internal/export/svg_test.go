package export

import (
	"strings"
	"testing"

	"github.com/san-kum/steersim/internal/output"
	"github.com/san-kum/steersim/internal/vector"
)

func TestSceneToSVG(t *testing.T) {
	samples := []output.Trajectory{
		{Time: 0, MoverID: 2, PosX: 0, PosY: 0},
		{Time: 0, MoverID: 1, PosX: 10, PosY: 10},
		{Time: 0.5, MoverID: 2, PosX: 5, PosY: 0},
		{Time: 0.5, MoverID: 1, PosX: 10, PosY: 5},
	}
	paths := []output.Polyline{{Index: 0, Points: []vector.Vector{vector.New(0, 0), vector.New(10, 10)}}}
	lines := []output.Segment{{From: vector.New(0, 10), To: vector.New(10, 0)}}

	svg := SceneToSVG(samples, paths, lines, 200, 100)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("expected a complete svg document")
	}
	for _, want := range []string{`id="mover-1"`, `id="mover-2"`, "stroke-dasharray", "<line "} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected svg to contain %s", want)
		}
	}
	if strings.Index(svg, `id="mover-1"`) > strings.Index(svg, `id="mover-2"`) {
		t.Error("expected movers drawn in id order")
	}
}

func TestSceneToSVG_Empty(t *testing.T) {
	if SceneToSVG(nil, nil, nil, 100, 100) != "" {
		t.Error("expected empty output for an empty scene")
	}
}

func TestSceneBounds(t *testing.T) {
	b := SceneBounds([]output.Trajectory{{PosX: 0, PosY: 0}, {PosX: 10, PosY: 20}}, nil, nil)
	if b.X.Lo != -1 || b.X.Hi != 11 || b.Y.Lo != -2 || b.Y.Hi != 22 {
		t.Errorf("unexpected bounds %v", b.Rect)
	}

	px, py := b.Project(-1, -2, 100, 50)
	if px != 0 || py != 50 {
		t.Errorf("expected bottom-left corner, got (%f, %f)", px, py)
	}

	single := SceneBounds([]output.Trajectory{{PosX: 3, PosY: 3}}, nil, nil)
	if single.X.Length() <= 0 || single.Y.Length() <= 0 {
		t.Errorf("expected a non-degenerate box, got %v", single.Rect)
	}

	if NewBounds(0, 4, 0, 2) != NewBounds(4, 0, 2, 0) {
		t.Error("expected corner order not to matter")
	}
}
