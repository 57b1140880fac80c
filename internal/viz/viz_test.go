package viz

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCameraProjectsTargetToCenter(t *testing.T) {
	cam := NewCamera(100)

	x, y, _, ok := cam.Project(cam.Target, 80, 24)
	if !ok {
		t.Fatal("target projected off canvas")
	}
	if x != 40 || y != 12 {
		t.Errorf("expected target at canvas center (40,12), got (%d,%d)", x, y)
	}
}

func TestCameraZoomBounds(t *testing.T) {
	cam := NewCamera(100)

	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom > 50 {
		t.Errorf("zoom exceeded ceiling: %f", cam.Zoom)
	}
	for i := 0; i < 100; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom < 0.02 {
		t.Errorf("zoom fell below floor: %f", cam.Zoom)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	cam := NewCamera(100)
	cam.Rotate(0, 10)
	if cam.Pitch > 1.58 {
		t.Errorf("pitch passed the pole: %f", cam.Pitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch < -1.58 {
		t.Errorf("pitch passed the pole: %f", cam.Pitch)
	}
}

func TestCameraOffCanvas(t *testing.T) {
	cam := NewCamera(100)
	_, _, _, ok := cam.Project(mgl64.Vec3{1e6, 0, 0}, 80, 24)
	if ok {
		t.Error("distant point should project off canvas")
	}
}

func TestCanvasSetAndRender(t *testing.T) {
	c := NewCanvas(5, 2)
	c.Set(1, 0, 'x', "")
	c.Set(3, 1, 'y', "86")

	// Out-of-range writes are ignored.
	c.Set(-1, 0, 'z', "")
	c.Set(5, 0, 'z', "")
	c.Set(0, 2, 'z', "")

	out := c.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "x") {
		t.Errorf("expected x on line 0, got %q", lines[0])
	}
	if !strings.Contains(out, "y") {
		t.Error("styled cell missing from output")
	}
	if strings.Contains(out, "z") {
		t.Error("out-of-range write leaked onto the canvas")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(1, 1, '#', "")
	c.Clear()
	if strings.Contains(c.Render(), "#") {
		t.Error("clear left a glyph behind")
	}
}

func TestColorCode(t *testing.T) {
	tests := []struct {
		rgb  mgl64.Vec3
		want string
	}{
		{mgl64.Vec3{0, 0, 0}, "16"},
		{mgl64.Vec3{1, 1, 1}, "231"},
		{mgl64.Vec3{1, 0, 0}, "196"},
		{mgl64.Vec3{2, -1, 0}, "196"}, // out-of-range channels clamp
	}
	for _, tt := range tests {
		if got := ColorCode(tt.rgb); got != tt.want {
			t.Errorf("ColorCode(%v) = %s, want %s", tt.rgb, got, tt.want)
		}
	}
}
