package physics

import (
	"log"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Material defaults for colliders without a Rigidbody.
const (
	DefaultStaticFriction    = 0.5
	DefaultStaticRestitution = 1.0
)

// body is the per-tick solver view of a registered object.
type body struct {
	obj   *engine.GameObject
	rb    *components.Rigidbody
	vel   *components.Velocity
	sleep *components.Sleep

	kind        components.BodyKind
	col         collider
	hasCollider bool

	invMass    float32
	invInertia mgl32.Mat3

	// v0/w0 are the velocities at the start of the tick, v/w the working
	// values.
	v0, w0 rl.Vector3
	v, w   rl.Vector3

	gravityApplied bool
	inContact      bool
	correction     rl.Vector3
}

func (b *body) asleep() bool {
	return b.sleep != nil && b.sleep.IsSleeping
}

// simulated reports whether the solver writes velocities back to b.
func (b *body) simulated() bool {
	return b.kind == components.Dynamic && !b.asleep() && b.vel != nil
}

func (b *body) moving() bool {
	return b.kind != components.Static
}

func (b *body) friction() float32 {
	if b.rb == nil {
		return DefaultStaticFriction
	}
	return b.rb.Friction
}

func (b *body) restitution() float32 {
	if b.rb == nil {
		return DefaultStaticRestitution
	}
	return b.rb.Restitution
}

// pointVelocity is v + w x r at world point p.
func (b *body) pointVelocity(v, w, p rl.Vector3) rl.Vector3 {
	r := rl.Vector3Subtract(p, b.obj.WorldPosition())
	return rl.Vector3Add(v, rl.Vector3CrossProduct(w, r))
}

// loadBody reads obj's components into b. A dynamic body that is asleep or
// has no positive mass gets zero inverse mass.
func loadBody(b *body, obj *engine.GameObject) {
	*b = body{obj: obj, kind: components.Static, invInertia: mgl32.Mat3{}}
	b.rb = engine.GetComponent[*components.Rigidbody](obj)
	b.vel = engine.GetComponent[*components.Velocity](obj)
	b.sleep = engine.GetComponent[*components.Sleep](obj)
	b.col, b.hasCollider = poseCollider(obj)

	if b.rb != nil {
		b.kind = b.rb.Kind
	}
	if b.vel != nil && b.kind != components.Static {
		b.v, b.w = b.vel.Linear, b.vel.Angular
	}
	// A sleeper's Velocity is zeroed when it falls asleep, so anything
	// nonzero was written by gameplay and wakes it.
	if b.asleep() && b.vel != nil && (b.vel.Linear != (rl.Vector3{}) || b.vel.Angular != (rl.Vector3{})) {
		b.sleep.Wake()
	}
	if b.asleep() {
		b.v, b.w = rl.Vector3{}, rl.Vector3{}
	}
	b.v0, b.w0 = b.v, b.w

	if b.kind != components.Dynamic || b.asleep() {
		return
	}
	b.invMass = b.rb.InverseMass()
	if b.invMass == 0 {
		return
	}
	local := b.rb.LocalInertia
	if local == (mgl32.Mat3{}) {
		local = LocalInertia(b.col.shape, b.rb.Mass)
	}
	b.invInertia = worldInverseInertia(local, obj.WorldRotation())
}

// prepareRigidbody gives moving bodies a Velocity if they lack one.
func prepareRigidbody(g *engine.GameObject, rb *components.Rigidbody) {
	if rb.Kind == components.Dynamic && rb.Mass <= 0 {
		log.Printf("Physics: %s has mass %v, it will not respond to impulses", g.Name, rb.Mass)
	}
	if rb.Kind != components.Static && engine.GetComponent[*components.Velocity](g) == nil {
		g.AddComponent(&components.Velocity{})
	}
}
