package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point. Yaw and Pitch are in degrees.
type OrbitCamera struct {
	Target    rl.Vector3
	Distance  float32
	Yaw       float32
	Pitch     float32
	TurnSpeed float32 // degrees per second
	ZoomSpeed float32

	MinDistance float32
	MaxDistance float32
}

func New(target rl.Vector3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:      target,
		Distance:    distance,
		Yaw:         45.0,
		Pitch:       30.0,
		TurnSpeed:   90.0,
		ZoomSpeed:   2.0,
		MinDistance: 2.0,
		MaxDistance: 100.0,
	}
}

// Update reads A/D and W/S for yaw and pitch and the mouse wheel for zoom.
func (c *OrbitCamera) Update(deltaTime float32) {
	if rl.IsKeyDown(rl.KeyA) {
		c.Yaw -= c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyD) {
		c.Yaw += c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyW) {
		c.Pitch += c.TurnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyS) {
		c.Pitch -= c.TurnSpeed * deltaTime
	}
	c.Zoom(-rl.GetMouseWheelMove() * c.ZoomSpeed)
	c.clamp()
}

// Zoom moves the camera towards (negative) or away from the target.
func (c *OrbitCamera) Zoom(amount float32) {
	c.Distance += amount
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	// Clamp pitch
	c.Pitch = math32.Max(-89, math32.Min(89, c.Pitch))
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, c.Distance))
}

// Position is the eye point for the current yaw, pitch and distance.
func (c *OrbitCamera) Position() rl.Vector3 {
	yawRad := c.Yaw * math32.Pi / 180
	pitchRad := c.Pitch * math32.Pi / 180

	return rl.Vector3{
		X: c.Target.X + c.Distance*math32.Cos(yawRad)*math32.Cos(pitchRad),
		Y: c.Target.Y + c.Distance*math32.Sin(pitchRad),
		Z: c.Target.Z + c.Distance*math32.Sin(yawRad)*math32.Cos(pitchRad),
	}
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
