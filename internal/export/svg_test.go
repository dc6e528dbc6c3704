package export

import (
	"strings"
	"testing"

	"github.com/san-kum/studio/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	svg := CanvasToSVG(c, 2, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="4" height="8"`) {
		t.Error("expected a 4x8 document")
	}
	if !strings.Contains(svg, `cx="3.0" cy="7.0"`) {
		t.Error("expected the lower right dot at (3, 7)")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "red") != "" {
		t.Error("expected empty output for a single value")
	}

	svg := SeriesToSVG([]float64{0, 1, 0}, 100, 60, "red")
	if !strings.Contains(svg, `stroke="red"`) {
		t.Error("missing stroke colour")
	}
	if !strings.Contains(svg, "M0.0,55.0 L50.0,5.0 L100.0,55.0") {
		t.Errorf("unexpected path in %q", svg)
	}
}
