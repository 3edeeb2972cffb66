package physics

import (
	"log"
	"time"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Stats describes the last Step.
type Stats struct {
	Bodies      int
	Leaves      int
	TreeHeight  int
	Reinserts   int
	Pairs       int
	Manifolds   int
	Contacts    int
	Sleeping    int
	Parallel    bool
	StepTime    time.Duration
	PhysicsHits int
}

// PhysicsWorld owns the broadphase, the manifold history and the solver
// state of a set of registered objects. It is not safe for concurrent use.
type PhysicsWorld struct {
	Config  Config
	Gravity Gravity // used by Update

	Objects    []*engine.GameObject // dynamic rigidbodies
	Kinematics []*engine.GameObject // kinematic rigidbodies
	Statics    []*engine.GameObject // static rigidbodies and bare colliders

	registered map[uint64]*engine.GameObject
	broadphase *Broadphase
	history    manifoldHistory

	bodies    []body
	bodyIndex map[uint64]int
	proxies   []Proxy
	slots     []narrowSlot

	solver solver

	physicsEvents   []engine.PhysicsEvent
	collisionEvents []engine.CollisionEvent

	stats Stats
}

func NewPhysicsWorld(cfg Config) *PhysicsWorld {
	if err := cfg.Validate(); err != nil {
		log.Printf("Physics: %v, using defaults", err)
		cfg = DefaultConfig()
	}
	return &PhysicsWorld{
		Config:     cfg,
		Gravity:    DefaultGravity(),
		Objects:    make([]*engine.GameObject, 0),
		Kinematics: make([]*engine.GameObject, 0),
		Statics:    make([]*engine.GameObject, 0),
		registered: make(map[uint64]*engine.GameObject),
		broadphase: NewBroadphase(cfg.FatMargin),
		history:    newManifoldHistory(),
		bodyIndex:  make(map[uint64]int),
		solver:     newSolver(),
	}
}

// AddObject registers g. Adding an object twice is a no-op.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) {
	if _, ok := p.registered[g.UID]; ok {
		return
	}
	p.registered[g.UID] = g

	rb := engine.GetComponent[*components.Rigidbody](g)
	switch {
	case rb == nil || rb.Kind == components.Static:
		p.Statics = append(p.Statics, g)
	case rb.Kind == components.Kinematic:
		p.Kinematics = append(p.Kinematics, g)
	default:
		p.Objects = append(p.Objects, g)
	}
	if rb != nil {
		prepareRigidbody(g, rb)
	}

	if n := len(p.registered); n%1000 == 0 {
		log.Printf("Physics: %d objects registered", n)
	}
}

// RemoveObject unregisters g and drops its broadphase leaf. Contact pairs
// it was part of report Exit on the next Step.
func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	if _, ok := p.registered[g.UID]; !ok {
		return
	}
	delete(p.registered, g.UID)
	p.broadphase.Remove(g.UID)
	p.Objects = removeObject(p.Objects, g)
	p.Kinematics = removeObject(p.Kinematics, g)
	p.Statics = removeObject(p.Statics, g)
}

func removeObject(list []*engine.GameObject, g *engine.GameObject) []*engine.GameObject {
	for i, obj := range list {
		if obj == g {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// DynamicObjectCount returns the number of dynamic physics objects
func (p *PhysicsWorld) DynamicObjectCount() int {
	return len(p.Objects)
}

// Update steps the world with the Gravity field.
func (p *PhysicsWorld) Update(deltaTime float32) {
	p.Step(deltaTime, p.Gravity)
}

// Step advances the simulation by dt seconds.
func (p *PhysicsWorld) Step(dt float32, gravity Gravity) {
	if dt <= 0 {
		return
	}
	start := time.Now()

	p.history.Rotate()
	p.solver.rotate()
	p.physicsEvents = p.physicsEvents[:0]
	p.collisionEvents = p.collisionEvents[:0]

	p.gatherBodies()
	pairs := p.broadphaseStep()
	parallel := p.narrowphase(pairs)
	p.wakeOnHit()

	g := gravity.Vector()
	p.applyForces(dt, g)
	p.solver.solve(p)
	p.integrate(dt, g)
	p.correctPositions()
	p.updateSleep(dt)
	p.dispatchEvents()

	p.stats = Stats{
		Bodies:      len(p.bodies),
		Leaves:      p.broadphase.Len(),
		TreeHeight:  p.broadphase.Tree().Height(),
		Reinserts:   p.broadphase.Reinserts(),
		Pairs:       len(pairs),
		Manifolds:   p.history.current.Len(),
		Contacts:    p.solver.contactCount(),
		Sleeping:    p.countSleeping(),
		Parallel:    parallel,
		StepTime:    time.Since(start),
		PhysicsHits: p.countHits(),
	}
}

// gatherBodies snapshots every registered object in a stable order.
func (p *PhysicsWorld) gatherBodies() {
	n := len(p.Objects) + len(p.Kinematics) + len(p.Statics)
	if cap(p.bodies) < n {
		p.bodies = make([]body, 0, n)
	}
	p.bodies = p.bodies[:0]
	clear(p.bodyIndex)
	for _, list := range [3][]*engine.GameObject{p.Objects, p.Kinematics, p.Statics} {
		for _, obj := range list {
			if !obj.Active {
				continue
			}
			p.bodies = append(p.bodies, body{})
			b := &p.bodies[len(p.bodies)-1]
			loadBody(b, obj)
			p.bodyIndex[obj.UID] = len(p.bodies) - 1
		}
	}
}

func (p *PhysicsWorld) body(uid uint64) (*body, bool) {
	i, ok := p.bodyIndex[uid]
	if !ok {
		return nil, false
	}
	return &p.bodies[i], true
}

func (p *PhysicsWorld) broadphaseStep() []Pair {
	p.proxies = p.proxies[:0]
	for i := range p.bodies {
		b := &p.bodies[i]
		if !b.hasCollider {
			continue
		}
		p.proxies = append(p.proxies, Proxy{UID: b.obj.UID, Bounds: b.col.bounds(), Moving: b.moving()})
	}
	p.broadphase.Sync(p.proxies)
	return p.broadphase.FindPairs()
}

// wakeOnHit wakes a sleeping body touched for the first time by an awake
// moving body.
func (p *PhysicsWorld) wakeOnHit() {
	for _, m := range p.history.current.All() {
		if p.history.previous.Has(m.Pair) {
			continue
		}
		a, okA := p.body(m.A)
		b, okB := p.body(m.B)
		if !okA || !okB {
			continue
		}
		wakeBy(a, b)
		wakeBy(b, a)
	}
}

func wakeBy(sleeper, other *body) {
	if !sleeper.asleep() || other.kind == components.Static || other.asleep() {
		return
	}
	sleeper.sleep.Wake()
	loadBody(sleeper, sleeper.obj)
}

// Manifold returns the current manifold of the pair (a, b) in either order.
func (p *PhysicsWorld) Manifold(a, b *engine.GameObject) (*Manifold, bool) {
	return p.history.current.Get(MakePair(a.UID, b.UID))
}

// Manifolds returns this tick's manifolds in pair order.
func (p *PhysicsWorld) Manifolds() []Manifold {
	return p.history.current.All()
}

// PhysicsEvents returns the hit/stay events of the last Step. The slice is
// reused by the next Step.
func (p *PhysicsWorld) PhysicsEvents() []engine.PhysicsEvent {
	return p.physicsEvents
}

// CollisionEvents returns the enter/stay/exit events of the last Step.
func (p *PhysicsWorld) CollisionEvents() []engine.CollisionEvent {
	return p.collisionEvents
}

func (p *PhysicsWorld) Stats() Stats {
	return p.stats
}

// Bounds returns the cached world box of g from the last Step.
func (p *PhysicsWorld) Bounds(g *engine.GameObject) (AABB, bool) {
	return p.broadphase.Bounds(g.UID)
}

// ApplyImpulse changes g's linear velocity by impulse / mass and wakes it.
func (p *PhysicsWorld) ApplyImpulse(g *engine.GameObject, impulse rl.Vector3) {
	rb := engine.GetComponent[*components.Rigidbody](g)
	vel := engine.GetComponent[*components.Velocity](g)
	if rb == nil || vel == nil {
		return
	}
	inv := rb.InverseMass()
	if inv == 0 {
		return
	}
	vel.Linear = rl.Vector3Add(vel.Linear, rl.Vector3Scale(impulse, inv))
	p.WakeUp(g)
}

// SetVelocity overwrites g's velocities and wakes it.
func (p *PhysicsWorld) SetVelocity(g *engine.GameObject, linear, angular rl.Vector3) {
	vel := engine.GetComponent[*components.Velocity](g)
	if vel == nil {
		vel = &components.Velocity{}
		g.AddComponent(vel)
	}
	vel.Linear, vel.Angular = linear, angular
	p.WakeUp(g)
}

func (p *PhysicsWorld) WakeUp(g *engine.GameObject) {
	if s := engine.GetComponent[*components.Sleep](g); s != nil {
		s.Wake()
	}
}

func (p *PhysicsWorld) countSleeping() int {
	n := 0
	for i := range p.bodies {
		if p.bodies[i].asleep() {
			n++
		}
	}
	return n
}

func (p *PhysicsWorld) countHits() int {
	n := 0
	for _, e := range p.physicsEvents {
		if e.Kind == engine.PhysicsHit {
			n++
		}
	}
	return n
}

var _ engine.PhysicsAccess = (*PhysicsWorld)(nil)
