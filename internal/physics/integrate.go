package physics

import (
	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// applyForces adds gravity and drag to the working velocities of awake
// dynamic bodies.
func (p *PhysicsWorld) applyForces(dt float32, g rl.Vector3) {
	for i := range p.bodies {
		b := &p.bodies[i]
		if !b.simulated() {
			continue
		}
		if b.rb.UseGravity {
			b.v = rl.Vector3Add(b.v, rl.Vector3Scale(g, dt))
			b.gravityApplied = true
		}
		if b.rb.Mass > 0 {
			b.v = rl.Vector3Add(b.v, rl.Vector3Scale(b.v, -b.rb.Drag/b.rb.Mass*dt))
			b.w = rl.Vector3Add(b.w, rl.Vector3Scale(b.w, -b.rb.AngularDrag/b.rb.Mass*dt))
		}
	}
}

// integrate moves awake dynamic bodies and kinematic bodies by their
// velocities. Bodies in free fall subtract half the tick's gravity step so
// the trajectory is exact for any dt; supported bodies don't, or they would
// creep up off their support.
func (p *PhysicsWorld) integrate(dt float32, g rl.Vector3) {
	for i := range p.bodies {
		b := &p.bodies[i]
		switch {
		case b.simulated():
		case b.kind == components.Kinematic && b.vel != nil:
		default:
			continue
		}
		step := rl.Vector3Scale(b.v, dt)
		if b.gravityApplied && !b.inContact {
			step = rl.Vector3Subtract(step, rl.Vector3Scale(g, 0.5*dt*dt))
		}
		b.obj.SetWorldPosition(rl.Vector3Add(b.obj.WorldPosition(), step))
		if q, ok := integrateRotation(b.obj.WorldRotation(), b.w, dt); ok {
			b.obj.SetWorldRotation(q)
		}
	}
}

// integrateRotation applies angular velocity w (rad/s, world axes) for dt.
// It returns false when w is zero and q is unchanged.
func integrateRotation(q rl.Quaternion, w rl.Vector3, dt float32) (rl.Quaternion, bool) {
	speed := rl.Vector3Length(w)
	if speed < 1e-9 {
		return q, false
	}
	axis := rl.Vector3Scale(w, 1/speed)
	dq := rl.QuaternionFromAxisAngle(axis, speed*dt)
	return rl.QuaternionNormalize(rl.QuaternionMultiply(dq, q)), true
}

// IntegrateVelocityOnly advances every object that has a Velocity but no
// Rigidbody. These objects never take part in contact solving.
func IntegrateVelocityOnly(objects []*engine.GameObject, dt float32) {
	for _, obj := range objects {
		vel := engine.GetComponent[*components.Velocity](obj)
		if vel == nil || engine.GetComponent[*components.Rigidbody](obj) != nil {
			continue
		}
		obj.Transform.Position = rl.Vector3Add(obj.Transform.Position, rl.Vector3Scale(vel.Linear, dt))
		if q, ok := integrateRotation(obj.Transform.Rotation, vel.Angular, dt); ok {
			obj.Transform.Rotation = q
		}
	}
}
