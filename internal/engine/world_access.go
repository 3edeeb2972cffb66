package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// RaycastResult holds information about a raycast hit.
// Defined here to avoid circular imports with physics package.
type RaycastResult struct {
	GameObject *GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// PhysicsAccess lets components query and poke the physics world without
// importing the physics package.
type PhysicsAccess interface {
	Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastResult, bool)
	ApplyImpulse(g *GameObject, impulse rl.Vector3)
	SetVelocity(g *GameObject, linear, angular rl.Vector3)
	WakeUp(g *GameObject)
}
