package physics

import (
	"testing"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var noGravity = NewGravity(rl.Vector3{Y: -1}, 0)

func newSphere(name string, pos rl.Vector3, radius float32) (*engine.GameObject, *components.Rigidbody, *components.Velocity) {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	rb := components.NewRigidbody()
	rb.Drag = 0
	rb.AngularDrag = 0
	vel := &components.Velocity{}
	g.AddComponent(rb)
	g.AddComponent(vel)
	g.AddComponent(components.NewSphereCollider(radius))
	return g, rb, vel
}

func newGround(pos, size rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject("ground")
	g.Transform.Position = pos
	g.AddComponent(components.NewBoxCollider(size))
	return g
}

func TestFreeFallIsExact(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ball, _, vel := newSphere("ball", rl.Vector3{Y: 10}, 0.5)
	w.AddObject(ball)

	for i := 0; i < 60; i++ {
		w.Step(1.0/60.0, DefaultGravity())
	}

	if !approx(ball.Transform.Position.Y, 10-4.905, 1e-3) {
		t.Errorf("Expected y = %v after 1s, got %v", 10-4.905, ball.Transform.Position.Y)
	}
	if !approx(vel.Linear.Y, -9.81, 1e-3) {
		t.Errorf("Expected vy = -9.81, got %v", vel.Linear.Y)
	}
}

func TestElasticHeadOnReversesVelocities(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	a, rbA, velA := newSphere("a", rl.Vector3{}, 1)
	b, rbB, velB := newSphere("b", rl.Vector3{X: 1.99}, 1)
	rbA.Restitution, rbB.Restitution = 1, 1
	rbA.UseGravity, rbB.UseGravity = false, false
	velA.Linear = rl.Vector3{X: 1}
	velB.Linear = rl.Vector3{X: -1}
	w.AddObject(a)
	w.AddObject(b)

	w.Step(1.0/60.0, DefaultGravity())

	if !approxVec(velA.Linear, rl.Vector3{X: -1}, 1e-4) {
		t.Errorf("Expected a velocity (-1,0,0), got %v", velA.Linear)
	}
	if !approxVec(velB.Linear, rl.Vector3{X: 1}, 1e-4) {
		t.Errorf("Expected b velocity (1,0,0), got %v", velB.Linear)
	}

	m, ok := w.Manifold(b, a)
	if !ok {
		t.Fatal("Expected a manifold for the pair")
	}
	if !approx(m.RelativeNormalSpeed, 2, 1e-4) {
		t.Errorf("Expected closing speed 2, got %v", m.RelativeNormalSpeed)
	}
	// Reduced mass 0.5: impulse (1+1)*0.5*2, energy 0.5*0.5*4.
	if !approx(m.ImpactImpulse, 2, 1e-4) || !approx(m.ImpactEnergy, 1, 1e-4) {
		t.Errorf("Expected impulse 2 energy 1, got %v %v", m.ImpactImpulse, m.ImpactEnergy)
	}
}

func TestPenetrationConverges(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	a, rbA, _ := newSphere("a", rl.Vector3{}, 1)
	b, rbB, _ := newSphere("b", rl.Vector3{X: 1.5}, 1)
	rbA.Restitution, rbB.Restitution = 0, 0
	w.AddObject(a)
	w.AddObject(b)

	last := float32(1e9)
	for i := 0; i < 60; i++ {
		w.Step(1.0/60.0, noGravity)
		m, ok := w.Manifold(a, b)
		if !ok {
			break
		}
		pen := m.MaxPenetration()
		if pen > last+1e-6 {
			t.Fatalf("Penetration grew at tick %d: %v -> %v", i, last, pen)
		}
		last = pen
	}

	dist := rl.Vector3Distance(a.Transform.Position, b.Transform.Position)
	if pen := 2 - dist; pen >= 0.03 {
		t.Errorf("Expected penetration below 0.03, got %v", pen)
	}
}

func TestSleepAfterTimeToSleep(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ball, _, _ := newSphere("ball", rl.Vector3{}, 0.5)
	sleep := components.NewSleep()
	ball.AddComponent(sleep)
	w.AddObject(ball)

	for i := 1; i <= 3; i++ {
		w.Step(0.125, noGravity)
		if sleep.IsSleeping {
			t.Fatalf("Expected awake after tick %d", i)
		}
	}
	w.Step(0.125, noGravity)
	if !sleep.IsSleeping {
		t.Error("Expected asleep after the 4th tick")
	}
}

func TestSleepFiresOnExactTickAt120Hz(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ball, rb, _ := newSphere("ball", rl.Vector3{}, 0.5)
	rb.UseGravity = false
	sleep := components.NewSleep()
	ball.AddComponent(sleep)
	w.AddObject(ball)

	dt := float32(1.0 / 120.0)
	for i := 1; i <= 59; i++ {
		w.Step(dt, noGravity)
		if sleep.IsSleeping {
			t.Fatalf("Expected awake after tick %d, timer %v", i, sleep.Timer)
		}
	}
	w.Step(dt, noGravity)
	if !sleep.IsSleeping {
		t.Errorf("Expected asleep on tick 60, timer %v", sleep.Timer)
	}
}

func TestWritingVelocityWakesSleepingBody(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ball, rb, vel := newSphere("ball", rl.Vector3{}, 0.5)
	rb.UseGravity = false
	sleep := components.NewSleep()
	sleep.IsSleeping = true
	ball.AddComponent(sleep)
	w.AddObject(ball)

	w.Step(1.0/60.0, noGravity)
	if ball.Transform.Position.X != 0 {
		t.Fatalf("Expected sleeping body to stay put, got %v", ball.Transform.Position)
	}

	vel.Linear = rl.Vector3{X: 6}
	w.Step(1.0/60.0, noGravity)

	if sleep.IsSleeping {
		t.Error("Expected a direct velocity write to wake the body")
	}
	if !approx(ball.Transform.Position.X, 0.1, 1e-4) {
		t.Errorf("Expected x = 0.1 after one tick, got %v", ball.Transform.Position.X)
	}
	if !approx(vel.Linear.X, 6, 1e-4) {
		t.Errorf("Expected vx = 6 to survive the tick, got %v", vel.Linear.X)
	}
}

func TestManifoldsListsTouchingPairs(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	a, rbA, _ := newSphere("a", rl.Vector3{}, 1)
	b, rbB, _ := newSphere("b", rl.Vector3{X: 1.5}, 1)
	far, rbF, _ := newSphere("far", rl.Vector3{X: 10}, 1)
	rbA.UseGravity, rbB.UseGravity, rbF.UseGravity = false, false, false
	w.AddObject(a)
	w.AddObject(b)
	w.AddObject(far)

	w.Step(1.0/60.0, noGravity)

	ms := w.Manifolds()
	if len(ms) != 1 {
		t.Fatalf("Expected 1 manifold, got %d", len(ms))
	}
	if ms[0].Pair != MakePair(a.UID, b.UID) {
		t.Errorf("Expected pair (%d, %d), got %v", a.UID, b.UID, ms[0].Pair)
	}
	if len(ms[0].Contacts()) != 1 {
		t.Errorf("Expected 1 contact point, got %d", len(ms[0].Contacts()))
	}
}

func TestSleepingBodyIgnoresGravity(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ball, _, _ := newSphere("ball", rl.Vector3{Y: 3}, 0.5)
	sleep := components.NewSleep()
	sleep.IsSleeping = true
	ball.AddComponent(sleep)
	w.AddObject(ball)

	w.Step(1.0/60.0, DefaultGravity())
	if ball.Transform.Position.Y != 3 {
		t.Errorf("Expected sleeping body to stay at y=3, got %v", ball.Transform.Position.Y)
	}

	w.ApplyImpulse(ball, rl.Vector3{X: 1})
	if sleep.IsSleeping {
		t.Error("ApplyImpulse should wake the body")
	}
}

func TestHitWakesSleepingBody(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	mover, rbM, velM := newSphere("mover", rl.Vector3{X: -1.9}, 1)
	sleeper, rbS, velS := newSphere("sleeper", rl.Vector3{}, 1)
	rbM.UseGravity, rbS.UseGravity = false, false
	sleep := components.NewSleep()
	sleep.IsSleeping = true
	sleeper.AddComponent(sleep)
	velM.Linear = rl.Vector3{X: 2}
	w.AddObject(mover)
	w.AddObject(sleeper)

	w.Step(1.0/60.0, noGravity)

	if sleep.IsSleeping {
		t.Error("Expected the hit to wake the sleeping body")
	}
	if velS.Linear.X <= 0 {
		t.Errorf("Expected the woken body to be pushed along +X, got %v", velS.Linear)
	}
}

func TestSphereSettlesOnStaticGround(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	ground := newGround(rl.Vector3{}, rl.Vector3{X: 20, Y: 1, Z: 20})
	ball, _, vel := newSphere("ball", rl.Vector3{Y: 2.5}, 0.5)
	w.AddObject(ground)
	w.AddObject(ball)

	for i := 0; i < 240; i++ {
		w.Step(1.0/60.0, DefaultGravity())
	}

	y := ball.Transform.Position.Y
	if y < 0.95 || y > 1.0 {
		t.Errorf("Expected ball resting near y=1, got %v", y)
	}
	if rl.Vector3Length(vel.Linear) > 0.05 {
		t.Errorf("Expected ball at rest, got velocity %v", vel.Linear)
	}
	if ground.Transform.Position != (rl.Vector3{}) {
		t.Errorf("Static ground moved to %v", ground.Transform.Position)
	}
}

func TestKinematicIsNotPushed(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	paddle := engine.NewGameObject("paddle")
	rb := components.NewRigidbody()
	rb.Kind = components.Kinematic
	paddle.AddComponent(rb)
	paddle.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
	w.AddObject(paddle)
	// AddObject supplies the Velocity component.
	w.SetVelocity(paddle, rl.Vector3{X: 1}, rl.Vector3{})

	ball, rbBall, velBall := newSphere("ball", rl.Vector3{X: 0.9}, 0.5)
	rbBall.UseGravity = false
	w.AddObject(ball)

	w.Step(0.1, noGravity)

	vel := engine.GetComponent[*components.Velocity](paddle)
	if vel.Linear != (rl.Vector3{X: 1}) {
		t.Errorf("Expected kinematic velocity unchanged, got %v", vel.Linear)
	}
	if !approx(paddle.Transform.Position.X, 0.1, 1e-5) {
		t.Errorf("Expected kinematic at x=0.1, got %v", paddle.Transform.Position.X)
	}
	if velBall.Linear.X <= 0 {
		t.Errorf("Expected ball pushed along +X, got %v", velBall.Linear)
	}
}

func TestRemoveObjectDropsLeaf(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	a, _, _ := newSphere("a", rl.Vector3{}, 1)
	b, _, _ := newSphere("b", rl.Vector3{X: 1.5}, 1)
	w.AddObject(a)
	w.AddObject(b)
	w.Step(1.0/60.0, noGravity)
	if w.Stats().Leaves != 2 {
		t.Fatalf("Expected 2 leaves, got %d", w.Stats().Leaves)
	}

	w.RemoveObject(b)
	w.Step(1.0/60.0, noGravity)
	if w.Stats().Leaves != 1 || w.Stats().Manifolds != 0 {
		t.Errorf("Expected 1 leaf and no manifolds, got %+v", w.Stats())
	}
	if w.DynamicObjectCount() != 1 {
		t.Errorf("Expected 1 dynamic object, got %d", w.DynamicObjectCount())
	}
}

func TestObjectWithoutColliderIsSkipped(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	g := engine.NewGameObject("ghost")
	g.AddComponent(components.NewRigidbody())
	w.AddObject(g)
	a, _, _ := newSphere("a", rl.Vector3{}, 1)
	w.AddObject(a)

	w.Step(1.0/60.0, DefaultGravity())
	if w.Stats().Leaves != 1 {
		t.Errorf("Expected only the collider to get a leaf, got %d", w.Stats().Leaves)
	}
	if g.Transform.Position.Y >= 0 {
		t.Errorf("Expected the collider-less body to fall, got y=%v", g.Transform.Position.Y)
	}
}

func TestParallelNarrowphaseMatchesSerial(t *testing.T) {
	cfg := DefaultConfig()
	w := NewPhysicsWorld(cfg)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			g, _, _ := newSphere("s", rl.Vector3{X: float32(i) * 1.8, Z: float32(j) * 1.8}, 1)
			w.AddObject(g)
		}
	}

	w.gatherBodies()
	pairs := w.broadphaseStep()

	w.Config.ParallelNarrowphaseThreshold = len(pairs) + 1
	if w.narrowphase(pairs) {
		t.Fatal("Expected serial narrowphase")
	}
	serial := append([]Manifold(nil), w.history.current.All()...)

	w.history.current.Reset()
	w.Config.ParallelNarrowphaseThreshold = 0
	w.Config.Workers = 4
	if !w.narrowphase(pairs) {
		t.Fatal("Expected parallel narrowphase")
	}
	parallel := w.history.current.All()

	if len(serial) != len(parallel) || len(serial) == 0 {
		t.Fatalf("Expected equal non-zero manifold counts, got %d and %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i].Pair != parallel[i].Pair || serial[i].Count != parallel[i].Count {
			t.Errorf("Manifold %d differs: %v vs %v", i, serial[i].Pair, parallel[i].Pair)
		}
	}
}

func TestRaycastHitsNearest(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	near, _, _ := newSphere("near", rl.Vector3{X: 5}, 1)
	far, _, _ := newSphere("far", rl.Vector3{X: 10}, 1)
	w.AddObject(far)
	w.AddObject(near)
	w.Step(1.0/60.0, noGravity)

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.GameObject != near {
		t.Errorf("Expected near sphere, got %s", hit.GameObject.Name)
	}
	if !approx(hit.Distance, 4, 1e-4) || !approxVec(hit.Normal, rl.Vector3{X: -1}, 1e-4) {
		t.Errorf("Expected distance 4 normal -X, got %v %v", hit.Distance, hit.Normal)
	}

	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Y: 1}, 100); ok {
		t.Error("Expected a miss straight up")
	}
}

func TestRaycastRotatedBox(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	box := newGround(rl.Vector3{Z: 5}, rl.Vector3{X: 2, Y: 2, Z: 2})
	box.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, rl.Pi/4)
	w.AddObject(box)
	w.Step(1.0/60.0, noGravity)

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Z: 1}, 100)
	if !ok {
		t.Fatal("Expected a hit")
	}
	// The rotated cube presents an edge at 5 - sqrt(2).
	if !approx(hit.Distance, 5-1.41421, 1e-3) {
		t.Errorf("Expected distance %v, got %v", 5-1.41421, hit.Distance)
	}
}

func TestIntegrateVelocityOnly(t *testing.T) {
	g := engine.NewGameObject("mote")
	g.AddComponent(components.NewVelocity(rl.Vector3{X: 2}, rl.Vector3{}))
	rot := g.Transform.Rotation

	IntegrateVelocityOnly([]*engine.GameObject{g}, 0.5)

	if g.Transform.Position != (rl.Vector3{X: 1}) {
		t.Errorf("Expected position (1,0,0), got %v", g.Transform.Position)
	}
	if g.Transform.Rotation != rot {
		t.Error("Zero angular velocity should leave rotation untouched")
	}
}

func TestShooterPushesHitBody(t *testing.T) {
	w := NewPhysicsWorld(DefaultConfig())
	target, rb, vel := newSphere("target", rl.Vector3{Z: 5}, 1)
	rb.UseGravity = false
	target.AddComponent(components.NewSleep())
	engine.GetComponent[*components.Sleep](target).IsSleeping = true
	w.AddObject(target)
	w.Step(1.0/60.0, noGravity)

	shooter := components.NewShooter(w, func() rl.Ray {
		return rl.Ray{Direction: rl.Vector3{Z: 2}}
	})
	if !shooter.Shoot() {
		t.Fatal("Expected the shot to hit")
	}
	if shooter.LastHit != target {
		t.Errorf("Expected target to be hit, got %v", shooter.LastHit)
	}
	if !approxVec(vel.Linear, rl.Vector3{Z: 5}, 1e-5) {
		t.Errorf("Expected velocity (0, 0, 5), got %v", vel.Linear)
	}
	if engine.GetComponent[*components.Sleep](target).IsSleeping {
		t.Error("Expected the shot to wake the target")
	}

	miss := components.NewShooter(w, func() rl.Ray {
		return rl.Ray{Direction: rl.Vector3{X: -1}}
	})
	if miss.Shoot() {
		t.Error("Expected the shot to miss")
	}
}
