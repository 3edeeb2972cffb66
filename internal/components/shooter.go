package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shooter pushes whatever body the aim ray hits while the right mouse button
// is held.
type Shooter struct {
	engine.BaseComponent
	Physics      engine.PhysicsAccess
	Aim          func() rl.Ray
	Strength     float32
	Range        float32
	Cooldown     float64
	lastShotTime float64
	LastHit      *engine.GameObject
}

func NewShooter(physics engine.PhysicsAccess, aim func() rl.Ray) *Shooter {
	return &Shooter{
		Physics:  physics,
		Aim:      aim,
		Strength: 5,
		Range:    100,
		Cooldown: 0.15,
	}
}

func (s *Shooter) Update(deltaTime float32) {
	if rl.IsMouseButtonDown(rl.MouseRightButton) && rl.GetTime()-s.lastShotTime >= s.Cooldown {
		s.Shoot()
		s.lastShotTime = rl.GetTime()
	}
}

// Shoot casts the aim ray and applies an impulse along it at the first hit.
// It reports whether anything was hit.
func (s *Shooter) Shoot() bool {
	if s.Physics == nil || s.Aim == nil {
		return false
	}
	ray := s.Aim()
	hit, ok := s.Physics.Raycast(ray.Position, ray.Direction, s.Range)
	if !ok {
		return false
	}
	s.LastHit = hit.GameObject
	s.Physics.ApplyImpulse(hit.GameObject, rl.Vector3Scale(rl.Vector3Normalize(ray.Direction), s.Strength))
	return true
}
