package physics

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxContacts is the most contacts one manifold carries.
const MaxContacts = 4

// Contact is a single world-space contact. Normal points from A toward B.
type Contact struct {
	A, B        uint64
	Normal      rl.Vector3
	Penetration float32
	Point       rl.Vector3
}

// collideFunc appends the contacts between a and b to out, oriented a->b.
type collideFunc func(a, b *collider, out []Contact) []Contact

var collideTable [shapeKindCount][shapeKindCount]collideFunc

func init() {
	collideTable[ShapeSphere][ShapeSphere] = collideSphereSphere
	collideTable[ShapeSphere][ShapeBox] = collideSphereBox
	collideTable[ShapeBox][ShapeSphere] = flipped(collideSphereBox)
	collideTable[ShapeBox][ShapeBox] = collideBoxBox
	collideTable[ShapeCapsule][ShapeSphere] = collideCapsuleSphere
	collideTable[ShapeSphere][ShapeCapsule] = flipped(collideCapsuleSphere)
	collideTable[ShapeCapsule][ShapeCapsule] = collideCapsuleCapsule
	collideTable[ShapeCapsule][ShapeBox] = collideCapsuleBox
	collideTable[ShapeBox][ShapeCapsule] = flipped(collideCapsuleBox)
}

// flipped adapts a b-a routine to an a-b slot.
func flipped(f collideFunc) collideFunc {
	return func(a, b *collider, out []Contact) []Contact {
		start := len(out)
		out = f(b, a, out)
		for i := start; i < len(out); i++ {
			out[i].Normal = rl.Vector3Negate(out[i].Normal)
		}
		return out
	}
}

// collide dispatches on the shape kinds of the pair. Kinds with no entry
// are a configuration error and panic.
func collide(a, b *collider, out []Contact) []Contact {
	ka, kb := a.shape.Kind, b.shape.Kind
	if ka >= shapeKindCount || kb >= shapeKindCount || collideTable[ka][kb] == nil {
		panic(fmt.Sprintf("physics: unsupported shape pair %s/%s", ka, kb))
	}
	start := len(out)
	out = collideTable[ka][kb](a, b, out)
	for i := start; i < len(out); i++ {
		out[i].A, out[i].B = a.uid, b.uid
	}
	return out
}

// contactSpheres handles every routine that reduces to two spheres.
func contactSpheres(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32, out []Contact) []Contact {
	d := rl.Vector3Subtract(cb, ca)
	distSq := rl.Vector3LengthSqr(d)
	r := ra + rb
	if distSq >= r*r {
		return out
	}
	dist := math32.Sqrt(distSq)
	normal := rl.Vector3{X: 1}
	if dist > 1e-6 {
		normal = rl.Vector3Scale(d, 1/dist)
	}
	pen := r - dist
	point := rl.Vector3Add(ca, rl.Vector3Scale(normal, ra-pen/2))
	return append(out, Contact{Normal: normal, Penetration: pen, Point: point})
}

func collideSphereSphere(a, b *collider, out []Contact) []Contact {
	return contactSpheres(a.center, a.shape.Radius, b.center, b.shape.Radius, out)
}

func collideSphereBox(a, b *collider, out []Contact) []Contact {
	return contactSphereOBB(a.center, a.shape.Radius, b.obb(), out)
}

// contactSphereOBB collides a sphere (A) with a box (B).
func contactSphereOBB(center rl.Vector3, radius float32, box OBB, out []Contact) []Contact {
	closest := ClosestPointOnOBB(box, center)
	d := rl.Vector3Subtract(closest, center)
	distSq := rl.Vector3LengthSqr(d)

	if distSq > 1e-12 {
		if distSq >= radius*radius {
			return out
		}
		dist := math32.Sqrt(distSq)
		return append(out, Contact{
			Normal:      rl.Vector3Scale(d, 1/dist),
			Penetration: radius - dist,
			Point:       closest,
		})
	}

	// Center inside the box: push out through the nearest face.
	l := box.local(center)
	lv := [3]float32{l.X, l.Y, l.Z}
	axis := 0
	best := float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		if gap := box.half(i) - math32.Abs(lv[i]); gap < best {
			best = gap
			axis = i
		}
	}
	normal := box.Axes[axis]
	if lv[axis] >= 0 {
		normal = rl.Vector3Negate(normal)
	}
	return append(out, Contact{Normal: normal, Penetration: radius + best, Point: center})
}

func collideBoxBox(a, b *collider, out []Contact) []Contact {
	oa, ob := a.obb(), b.obb()
	normal, pen, ok := oa.minimumOverlap(ob)
	if !ok || pen <= 0 {
		return out
	}

	const slack = 1e-3
	var found [16]Contact
	n := 0
	faceA := rl.Vector3DotProduct(oa.Center, normal) + oa.projectedRadius(normal)
	faceB := rl.Vector3DotProduct(ob.Center, normal) - ob.projectedRadius(normal)

	for _, v := range ob.Corners() {
		if oa.ContainsPoint(v, slack) {
			depth := clampf(faceA-rl.Vector3DotProduct(v, normal), 0, pen)
			found[n] = Contact{Normal: normal, Penetration: depth, Point: v}
			n++
		}
	}
	for _, v := range oa.Corners() {
		if ob.ContainsPoint(v, slack) {
			depth := clampf(rl.Vector3DotProduct(v, normal)-faceB, 0, pen)
			found[n] = Contact{Normal: normal, Penetration: depth, Point: v}
			n++
		}
	}

	if n == 0 {
		// Edge-edge or face crossing without a contained vertex.
		pa := oa.Support(normal)
		pb := ob.Support(rl.Vector3Negate(normal))
		mid := rl.Vector3Scale(rl.Vector3Add(pa, pb), 0.5)
		return append(out, Contact{Normal: normal, Penetration: pen, Point: mid})
	}

	contacts := found[:n]
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Penetration > contacts[j].Penetration
	})
	if n > MaxContacts {
		contacts = contacts[:MaxContacts]
	}
	return append(out, contacts...)
}

// closestOnSegment returns the point of segment pq nearest to x.
func closestOnSegment(p, q, x rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(q, p)
	lenSq := rl.Vector3LengthSqr(d)
	if lenSq < 1e-12 {
		return p
	}
	t := clampf(rl.Vector3DotProduct(rl.Vector3Subtract(x, p), d)/lenSq, 0, 1)
	return rl.Vector3Add(p, rl.Vector3Scale(d, t))
}

// closestBetweenSegments returns the closest points of segments p1q1 and
// p2q2.
func closestBetweenSegments(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	const eps = 1e-12
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clampf(f/e, 0, 1)
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= eps {
			s = clampf(-c/a, 0, 1)
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom > eps {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}
	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}

func collideCapsuleSphere(a, b *collider, out []Contact) []Contact {
	p, q := a.segment()
	c := closestOnSegment(p, q, b.center)
	return contactSpheres(c, a.shape.Radius, b.center, b.shape.Radius, out)
}

func collideCapsuleCapsule(a, b *collider, out []Contact) []Contact {
	p1, q1 := a.segment()
	p2, q2 := b.segment()
	ca, cb := closestBetweenSegments(p1, q1, p2, q2)
	return contactSpheres(ca, a.shape.Radius, cb, b.shape.Radius, out)
}

// collideCapsuleBox alternates closest-point projections between the
// capsule axis and the box, then treats the capsule as a sphere at the
// converged axis point. A point inside the box falls back to the nearest
// face.
func collideCapsuleBox(a, b *collider, out []Contact) []Contact {
	box := b.obb()
	p, q := a.segment()
	x := a.center
	for i := 0; i < 4; i++ {
		onBox := ClosestPointOnOBB(box, x)
		next := closestOnSegment(p, q, onBox)
		if rl.Vector3LengthSqr(rl.Vector3Subtract(next, x)) < 1e-10 {
			x = next
			break
		}
		x = next
	}
	return contactSphereOBB(x, a.shape.Radius, box, out)
}

// narrowSlot holds one pair's contacts. Slots are written by at most one
// goroutine each.
type narrowSlot struct {
	pair     Pair
	buf      [MaxContacts]Contact
	contacts []Contact
}

// narrowphase runs the contact routines over pairs and records manifolds in
// pair order. It reports whether the work was split across goroutines.
func (p *PhysicsWorld) narrowphase(pairs []Pair) bool {
	if cap(p.slots) < len(pairs) {
		p.slots = make([]narrowSlot, len(pairs))
	}
	p.slots = p.slots[:len(pairs)]

	run := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s := &p.slots[i]
			s.pair = pairs[i]
			s.contacts = nil
			a, okA := p.body(s.pair.A)
			b, okB := p.body(s.pair.B)
			if !okA || !okB || !a.hasCollider || !b.hasCollider {
				continue
			}
			s.contacts = collide(&a.col, &b.col, s.buf[:0])
		}
	}

	parallel := len(pairs) > p.Config.ParallelNarrowphaseThreshold
	if parallel {
		forEachChunk(len(pairs), p.Config.Workers, run)
	} else {
		run(0, len(pairs))
	}

	for i := range p.slots {
		s := &p.slots[i]
		if len(s.contacts) == 0 {
			continue
		}
		a, _ := p.body(s.pair.A)
		b, _ := p.body(s.pair.B)
		m := Manifold{Pair: s.pair, objA: a.obj, objB: b.obj}
		m.setContacts(s.contacts)
		impactMetrics(&m, a, b)
		p.history.current.Add(m)
	}
	return parallel
}

// impactMetrics fills the closing speed, impulse and energy estimates of m
// from the start-of-tick velocities.
func impactMetrics(m *Manifold, a, b *body) {
	c := m.Deepest()
	va := a.pointVelocity(a.v0, a.w0, c.Point)
	vb := b.pointVelocity(b.v0, b.w0, c.Point)
	s := -rl.Vector3DotProduct(rl.Vector3Subtract(vb, va), c.Normal)
	if s < 0 {
		s = 0
	}
	m.RelativeNormalSpeed = s

	invSum := a.invMass + b.invMass
	if invSum == 0 {
		return
	}
	mu := 1 / invSum
	e := combineRestitution(a.restitution(), b.restitution())
	m.ImpactImpulse = (1 + e) * mu * s
	m.ImpactEnergy = 0.5 * mu * s * s
}
