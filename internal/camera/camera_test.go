package camera

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPositionAtZeroAngles(t *testing.T) {
	c := New(rl.Vector3{Y: 1}, 10)
	c.Yaw, c.Pitch = 0, 0

	p := c.Position()
	if math32.Abs(p.X-10) > 1e-4 || math32.Abs(p.Y-1) > 1e-4 || math32.Abs(p.Z) > 1e-4 {
		t.Errorf("Expected (10, 1, 0), got %v", p)
	}
}

func TestPositionKeepsDistance(t *testing.T) {
	c := New(rl.Vector3{X: 3}, 7)
	c.Yaw, c.Pitch = 123, -40

	d := rl.Vector3Distance(c.Position(), c.Target)
	if math32.Abs(d-7) > 1e-4 {
		t.Errorf("Expected distance 7, got %v", d)
	}
}

func TestZoomAndPitchAreClamped(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Zoom(-100)
	if c.Distance != c.MinDistance {
		t.Errorf("Expected distance %v, got %v", c.MinDistance, c.Distance)
	}
	c.Zoom(1000)
	if c.Distance != c.MaxDistance {
		t.Errorf("Expected distance %v, got %v", c.MaxDistance, c.Distance)
	}

	c.Pitch = 120
	c.clamp()
	if c.Pitch != 89 {
		t.Errorf("Expected pitch 89, got %v", c.Pitch)
	}
}
