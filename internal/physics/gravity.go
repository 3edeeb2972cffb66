package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const DefaultGravityMagnitude = 9.81

// Gravity is a direction and a magnitude. It is passed to every Step, so a
// change made by gameplay applies from the next tick.
type Gravity struct {
	Direction rl.Vector3 // unit length
	Magnitude float32
}

func DefaultGravity() Gravity {
	return Gravity{Direction: rl.Vector3{Y: -1}, Magnitude: DefaultGravityMagnitude}
}

// NewGravity normalises direction. A zero direction falls back to -Y.
func NewGravity(direction rl.Vector3, magnitude float32) Gravity {
	if rl.Vector3LengthSqr(direction) < 1e-12 {
		direction = rl.Vector3{Y: -1}
	}
	return Gravity{Direction: rl.Vector3Normalize(direction), Magnitude: magnitude}
}

// Vector is the acceleration, Direction * Magnitude.
func (g Gravity) Vector() rl.Vector3 {
	return rl.Vector3Scale(g.Direction, g.Magnitude)
}

// Up is the direction opposing gravity.
func (g Gravity) Up() rl.Vector3 {
	return rl.Vector3Negate(g.Direction)
}

func (g *Gravity) Rotate(q rl.Quaternion) {
	g.Direction = rl.Vector3Normalize(rl.Vector3RotateByQuaternion(g.Direction, q))
}

// RotateAroundAxis rotates the direction by angle radians about axis.
func (g *Gravity) RotateAroundAxis(axis rl.Vector3, angle float32) {
	if rl.Vector3LengthSqr(axis) < 1e-12 {
		return
	}
	g.Rotate(rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), angle))
}

// RotateEuler rotates by pitch (X), yaw (Y) and roll (Z) in radians.
func (g *Gravity) RotateEuler(pitch, yaw, roll float32) {
	g.Rotate(rl.QuaternionFromEuler(pitch, yaw, roll))
}

// Reset restores the default direction, keeping the magnitude.
func (g *Gravity) Reset() {
	g.Direction = rl.Vector3{Y: -1}
}
