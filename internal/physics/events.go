package physics

import (
	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// dispatchEvents classifies the current manifolds against the previous
// tick and delivers events to opted-in participants. Each pair yields one
// event per listening participant; the second participant sees the normal
// inverted.
func (p *PhysicsWorld) dispatchEvents() {
	cur, prev := p.history.current, p.history.previous

	for i := range cur.All() {
		m := &cur.All()[i]
		kind := engine.PhysicsHit
		if prev.Has(m.Pair) {
			kind = engine.PhysicsStay
		}
		p.emitPhysics(m, kind, m.objA, m.objB, false)
		p.emitPhysics(m, kind, m.objB, m.objA, true)

		if m.MaxPenetration() <= 0 {
			continue
		}
		ckind := engine.CollisionEnter
		if pm, ok := prev.Get(m.Pair); ok && pm.MaxPenetration() > 0 {
			ckind = engine.CollisionStay
		}
		p.emitCollision(m, ckind, m.objA, m.objB, false)
		p.emitCollision(m, ckind, m.objB, m.objA, true)
	}

	for i := range prev.All() {
		m := &prev.All()[i]
		if m.MaxPenetration() <= 0 {
			continue
		}
		if cm, ok := cur.Get(m.Pair); ok && cm.MaxPenetration() > 0 {
			continue
		}
		p.emitCollision(m, engine.CollisionExit, m.objA, m.objB, false)
		p.emitCollision(m, engine.CollisionExit, m.objB, m.objA, true)
	}
}

func contactPoints(m *Manifold, invert bool) []engine.ContactPoint {
	out := make([]engine.ContactPoint, 0, m.Count)
	for _, c := range m.Contacts() {
		n := c.Normal
		if invert {
			n = rl.Vector3Negate(n)
		}
		out = append(out, engine.ContactPoint{Point: c.Point, Normal: n, Penetration: c.Penetration})
	}
	return out
}

func (p *PhysicsWorld) emitPhysics(m *Manifold, kind engine.PhysicsEventKind, self, other *engine.GameObject, invert bool) {
	listener := engine.GetComponent[*components.PhysicsEventListener](self)
	if listener == nil {
		return
	}
	n := m.Normal
	if invert {
		n = rl.Vector3Negate(n)
	}
	e := engine.PhysicsEvent{
		Kind:                kind,
		Self:                self,
		Other:               other,
		Normal:              n,
		Contacts:            contactPoints(m, invert),
		RelativeNormalSpeed: m.RelativeNormalSpeed,
		ImpactImpulse:       m.ImpactImpulse,
		ImpactEnergy:        m.ImpactEnergy,
	}
	p.physicsEvents = append(p.physicsEvents, e)

	listener.Dispatch(e)
	for _, h := range engine.GetComponents[engine.PhysicsEventHandler](self) {
		if kind == engine.PhysicsHit {
			h.OnHit(e)
		} else {
			h.OnStay(e)
		}
	}
}

func (p *PhysicsWorld) emitCollision(m *Manifold, kind engine.CollisionEventKind, self, other *engine.GameObject, invert bool) {
	listener := engine.GetComponent[*components.CollisionEventListener](self)
	if listener == nil {
		return
	}
	n := m.Normal
	if invert {
		n = rl.Vector3Negate(n)
	}
	e := engine.CollisionEvent{
		Kind:   kind,
		Self:   self,
		Other:  other,
		Normal: n,
	}
	if kind != engine.CollisionExit {
		e.Contacts = contactPoints(m, invert)
		e.RelativeNormalSpeed = m.RelativeNormalSpeed
		e.ImpactImpulse = m.ImpactImpulse
		e.ImpactEnergy = m.ImpactEnergy
	}
	p.collisionEvents = append(p.collisionEvents, e)

	listener.Dispatch(e)
	for _, h := range engine.GetComponents[engine.CollisionHandler](self) {
		switch kind {
		case engine.CollisionEnter:
			h.OnCollisionEnter(e)
		case engine.CollisionStay:
			h.OnCollisionStay(e)
		case engine.CollisionExit:
			h.OnCollisionExit(e)
		}
	}
}
