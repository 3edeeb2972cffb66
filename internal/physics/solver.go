package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// combineFriction is the geometric mean of the two coefficients.
func combineFriction(a, b float32) float32 {
	return math32.Sqrt(math32.Max(a, 0) * math32.Max(b, 0))
}

func combineRestitution(a, b float32) float32 {
	return math32.Min(a, b)
}

// contactConstraint is one normal row and two friction rows.
type contactConstraint struct {
	a, b   int // body indices
	pair   Pair
	point  rl.Vector3
	normal rl.Vector3
	t1, t2 rl.Vector3
	rA, rB rl.Vector3

	massN, massT1, massT2 float32
	bias                  float32
	friction              float32
	penetration           float32

	impN, impT1, impT2 float32
}

// cachedImpulse is a contact's accumulated impulse kept for warm starting.
type cachedImpulse struct {
	point     rl.Vector3
	n, t1, t2 float32
}

// solver is a projected Gauss-Seidel sequential impulse solver.
type solver struct {
	constraints []contactConstraint
	// ranges[i] is the constraint span of the i-th solved manifold.
	ranges []constraintRange

	cache, prevCache map[Pair][]cachedImpulse
	// used marks the prevCache entries of one pair already handed out.
	used []bool
}

type constraintRange struct {
	pair   Pair
	lo, hi int
}

func newSolver() solver {
	return solver{
		cache:     make(map[Pair][]cachedImpulse),
		prevCache: make(map[Pair][]cachedImpulse),
	}
}

func (s *solver) rotate() {
	s.cache, s.prevCache = s.prevCache, s.cache
	clear(s.cache)
}

func (s *solver) contactCount() int {
	return len(s.constraints)
}

// tangentBasis returns two unit vectors orthogonal to n and each other.
func tangentBasis(n rl.Vector3) (rl.Vector3, rl.Vector3) {
	var t1 rl.Vector3
	if math32.Abs(n.X) >= 0.57735 {
		t1 = rl.Vector3Normalize(rl.Vector3{X: n.Y, Y: -n.X})
	} else {
		t1 = rl.Vector3Normalize(rl.Vector3{Y: n.Z, Z: -n.Y})
	}
	return t1, rl.Vector3CrossProduct(n, t1)
}

func mulVec(m mgl32.Mat3, v rl.Vector3) rl.Vector3 {
	return fromMgl(m.Mul3x1(toMgl(v)))
}

// effectiveMass is 1 / (J M^-1 J^T) for direction d, or 0 if degenerate.
func effectiveMass(a, b *body, rA, rB, d rl.Vector3) float32 {
	k := a.invMass + b.invMass
	raxd := rl.Vector3CrossProduct(rA, d)
	rbxd := rl.Vector3CrossProduct(rB, d)
	k += rl.Vector3DotProduct(raxd, mulVec(a.invInertia, raxd))
	k += rl.Vector3DotProduct(rbxd, mulVec(b.invInertia, rbxd))
	if k <= 1e-12 {
		return 0
	}
	return 1 / k
}

// relativeVelocity is the velocity of B's contact point relative to A's.
func relativeVelocity(a, b *body, rA, rB rl.Vector3) rl.Vector3 {
	va := rl.Vector3Add(a.v, rl.Vector3CrossProduct(a.w, rA))
	vb := rl.Vector3Add(b.v, rl.Vector3CrossProduct(b.w, rB))
	return rl.Vector3Subtract(vb, va)
}

func applyImpulse(a, b *body, rA, rB, impulse rl.Vector3) {
	if a.invMass > 0 {
		a.v = rl.Vector3Subtract(a.v, rl.Vector3Scale(impulse, a.invMass))
		a.w = rl.Vector3Subtract(a.w, mulVec(a.invInertia, rl.Vector3CrossProduct(rA, impulse)))
	}
	if b.invMass > 0 {
		b.v = rl.Vector3Add(b.v, rl.Vector3Scale(impulse, b.invMass))
		b.w = rl.Vector3Add(b.w, mulVec(b.invInertia, rl.Vector3CrossProduct(rB, impulse)))
	}
}

func (s *solver) solve(p *PhysicsWorld) {
	s.build(p)
	if p.Config.WarmStart {
		s.warmStart(p)
	}
	for it := 0; it < p.Config.Iterations; it++ {
		for i := range s.constraints {
			s.solveContact(p, &s.constraints[i])
		}
	}
	s.store()

	for i := range p.bodies {
		b := &p.bodies[i]
		if b.simulated() {
			b.vel.Linear, b.vel.Angular = b.v, b.w
		}
	}
}

// build turns the current manifolds into constraint rows. Manifolds whose
// bodies are both immovable are skipped.
func (s *solver) build(p *PhysicsWorld) {
	s.constraints = s.constraints[:0]
	s.ranges = s.ranges[:0]
	threshold := p.Config.RestitutionThreshold

	for _, m := range p.history.current.All() {
		ia, okA := p.bodyIndex[m.A]
		ib, okB := p.bodyIndex[m.B]
		if !okA || !okB {
			continue
		}
		a, b := &p.bodies[ia], &p.bodies[ib]
		if a.invMass == 0 && b.invMass == 0 {
			continue
		}
		friction := combineFriction(a.friction(), b.friction())
		restitution := combineRestitution(a.restitution(), b.restitution())
		pa, pb := a.obj.WorldPosition(), b.obj.WorldPosition()

		lo := len(s.constraints)
		for _, c := range m.Contacts() {
			if rl.Vector3LengthSqr(c.Normal) < 1e-12 {
				continue
			}
			cc := contactConstraint{
				a: ia, b: ib, pair: m.Pair,
				point: c.Point, normal: c.Normal,
				rA:          rl.Vector3Subtract(c.Point, pa),
				rB:          rl.Vector3Subtract(c.Point, pb),
				friction:    friction,
				penetration: c.Penetration,
			}
			cc.t1, cc.t2 = tangentBasis(c.Normal)
			cc.massN = effectiveMass(a, b, cc.rA, cc.rB, cc.normal)
			if cc.massN == 0 {
				continue
			}
			cc.massT1 = effectiveMass(a, b, cc.rA, cc.rB, cc.t1)
			cc.massT2 = effectiveMass(a, b, cc.rA, cc.rB, cc.t2)

			// Bounce off the closing speed at the start of the tick so that
			// gravity accumulated this tick doesn't make resting contacts bounce.
			va := a.pointVelocity(a.v0, a.w0, c.Point)
			vb := b.pointVelocity(b.v0, b.w0, c.Point)
			vn0 := rl.Vector3DotProduct(rl.Vector3Subtract(vb, va), c.Normal)
			if -vn0 > threshold {
				cc.bias = -restitution * vn0
			}
			s.constraints = append(s.constraints, cc)
		}
		if len(s.constraints) > lo {
			a.inContact, b.inContact = true, true
			s.ranges = append(s.ranges, constraintRange{pair: m.Pair, lo: lo, hi: len(s.constraints)})
		}
	}
}

// warmStart seeds each contact with the impulse of the nearest contact of
// the same pair last tick. Each cached impulse seeds at most one contact.
func (s *solver) warmStart(p *PhysicsWorld) {
	maxDistSq := p.Config.WarmStartDistance * p.Config.WarmStartDistance
	for _, r := range s.ranges {
		prev := s.prevCache[r.pair]
		if len(prev) == 0 {
			continue
		}
		if cap(s.used) < len(prev) {
			s.used = make([]bool, len(prev))
		}
		s.used = s.used[:len(prev)]
		clear(s.used)
		for i := r.lo; i < r.hi; i++ {
			c := &s.constraints[i]
			best := -1
			bestDist := maxDistSq
			for j, pc := range prev {
				if s.used[j] {
					continue
				}
				d := rl.Vector3LengthSqr(rl.Vector3Subtract(pc.point, c.point))
				if d <= bestDist {
					best, bestDist = j, d
				}
			}
			if best < 0 {
				continue
			}
			s.used[best] = true
			c.impN, c.impT1, c.impT2 = prev[best].n, prev[best].t1, prev[best].t2
			impulse := rl.Vector3Scale(c.normal, c.impN)
			impulse = rl.Vector3Add(impulse, rl.Vector3Scale(c.t1, c.impT1))
			impulse = rl.Vector3Add(impulse, rl.Vector3Scale(c.t2, c.impT2))
			applyImpulse(&p.bodies[c.a], &p.bodies[c.b], c.rA, c.rB, impulse)
		}
	}
}

func (s *solver) solveContact(p *PhysicsWorld, c *contactConstraint) {
	a, b := &p.bodies[c.a], &p.bodies[c.b]

	// Friction first so the normal row has the last word on penetration.
	maxF := c.friction * c.impN
	for _, row := range [2]struct {
		dir  rl.Vector3
		mass float32
		acc  *float32
	}{{c.t1, c.massT1, &c.impT1}, {c.t2, c.massT2, &c.impT2}} {
		if row.mass == 0 {
			continue
		}
		vt := rl.Vector3DotProduct(relativeVelocity(a, b, c.rA, c.rB), row.dir)
		lambda := -vt * row.mass
		old := *row.acc
		*row.acc = clampf(old+lambda, -maxF, maxF)
		lambda = *row.acc - old
		applyImpulse(a, b, c.rA, c.rB, rl.Vector3Scale(row.dir, lambda))
	}

	vn := rl.Vector3DotProduct(relativeVelocity(a, b, c.rA, c.rB), c.normal)
	lambda := c.massN * (-vn + c.bias)
	old := c.impN
	c.impN = math32.Max(old+lambda, 0)
	lambda = c.impN - old
	applyImpulse(a, b, c.rA, c.rB, rl.Vector3Scale(c.normal, lambda))
}

// store keeps this tick's accumulated impulses for the next warm start.
func (s *solver) store() {
	for _, r := range s.ranges {
		cached := make([]cachedImpulse, 0, r.hi-r.lo)
		for i := r.lo; i < r.hi; i++ {
			c := &s.constraints[i]
			cached = append(cached, cachedImpulse{point: c.point, n: c.impN, t1: c.impT1, t2: c.impT2})
		}
		s.cache[r.pair] = cached
	}
}

// correctPositions pushes penetrating bodies apart along the contact
// normals, split by inverse mass and divided across the manifold's contacts.
func (p *PhysicsWorld) correctPositions() {
	cfg := p.Config
	for _, r := range p.solver.ranges {
		count := float32(r.hi - r.lo)
		for i := r.lo; i < r.hi; i++ {
			c := &p.solver.constraints[i]
			a, b := &p.bodies[c.a], &p.bodies[c.b]
			invSum := a.invMass + b.invMass
			depth := c.penetration - cfg.Slop
			if invSum == 0 || depth <= 0 {
				continue
			}
			mag := depth * cfg.Percent / invSum / count
			a.correction = rl.Vector3Subtract(a.correction, rl.Vector3Scale(c.normal, mag*a.invMass))
			b.correction = rl.Vector3Add(b.correction, rl.Vector3Scale(c.normal, mag*b.invMass))
		}
	}

	for i := range p.bodies {
		b := &p.bodies[i]
		l := rl.Vector3Length(b.correction)
		if l == 0 {
			continue
		}
		if l > cfg.MaxCorrection {
			b.correction = rl.Vector3Scale(b.correction, cfg.MaxCorrection/l)
		}
		b.obj.SetWorldPosition(rl.Vector3Add(b.obj.WorldPosition(), b.correction))
		b.correction = rl.Vector3{}
	}
}
