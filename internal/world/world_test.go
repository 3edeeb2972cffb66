package world

import (
	"os"
	"path/filepath"
	"testing"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newBall(name string, pos rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	rb := components.NewRigidbody()
	rb.Mass = 2
	g.AddComponent(rb)
	g.AddComponent(components.NewSphereCollider(0.5))
	g.AddComponent(components.NewSleep())
	g.AddComponent(&components.CollisionEventListener{})
	return g
}

func TestSceneRoundTrip(t *testing.T) {
	w := New(physics.DefaultConfig())
	w.Physics.Gravity = physics.NewGravity(rl.Vector3{X: 1}, 5)

	ball := newBall("ball", rl.Vector3{Y: 3})
	ball.Tags = []string{"player"}
	ball.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.5)
	w.Spawn(ball)

	ground := engine.NewGameObject("ground")
	ground.AddComponent(components.NewBoxCollider(rl.Vector3{X: 10, Y: 1, Z: 10}))
	w.Spawn(ground)

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := w.SaveScene(path); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}

	loaded := New(physics.DefaultConfig())
	if err := loaded.LoadScene(path); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if len(loaded.Scene.GameObjects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(loaded.Scene.GameObjects))
	}
	if loaded.Physics.Gravity.Magnitude != 5 || loaded.Physics.Gravity.Direction.X != 1 {
		t.Errorf("Expected gravity to round trip, got %+v", loaded.Physics.Gravity)
	}

	b := loaded.Scene.FindByName("ball")
	if b == nil {
		t.Fatal("Expected ball to be loaded")
	}
	if !b.HasTag("player") {
		t.Error("Expected tag to round trip")
	}
	if b.Transform.Position.Y != 3 {
		t.Errorf("Expected Y 3, got %v", b.Transform.Position.Y)
	}
	if d := rl.QuaternionLength(rl.QuaternionSubtract(b.Transform.Rotation, ball.Transform.Rotation)); d > 1e-5 {
		t.Errorf("Expected rotation to round trip, got %v", b.Transform.Rotation)
	}

	rb := engine.GetComponent[*components.Rigidbody](b)
	if rb == nil || rb.Mass != 2 {
		t.Fatalf("Expected rigidbody with mass 2, got %+v", rb)
	}
	if engine.GetComponent[*components.Sleep](b) == nil {
		t.Error("Expected sleep component")
	}
	if engine.GetComponent[*components.CollisionEventListener](b) == nil {
		t.Error("Expected collision listener")
	}
	if loaded.Physics.DynamicObjectCount() != 1 {
		t.Errorf("Expected 1 dynamic body, got %d", loaded.Physics.DynamicObjectCount())
	}
	if len(loaded.GetCollidableObjects()) != 2 {
		t.Errorf("Expected 2 collidable objects, got %d", len(loaded.GetCollidableObjects()))
	}
}

func TestLoadSceneSkipsUnknownComponents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	data := `{"objects": [{"name": "thing", "position": [0, 1, 0],
		"components": [{"type": "Teapot"}, {"type": "SphereCollider", "radius": 2}]}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(physics.DefaultConfig())
	if err := w.LoadScene(path); err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	g := w.Scene.FindByName("thing")
	if g == nil {
		t.Fatal("Expected object to load")
	}
	if len(g.Components()) != 1 {
		t.Errorf("Expected 1 component, got %d", len(g.Components()))
	}
	if g.Transform.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Expected unit scale, got %v", g.Transform.Scale)
	}
	if g.Transform.Rotation != rl.QuaternionIdentity() {
		t.Errorf("Expected identity rotation, got %v", g.Transform.Rotation)
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	w := New(physics.DefaultConfig())
	if err := w.LoadScene(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing scene")
	}
}

func TestPausedWorldDoesNotStep(t *testing.T) {
	w := New(physics.DefaultConfig())
	ball := newBall("ball", rl.Vector3{Y: 3})
	w.Spawn(ball)

	w.Paused = true
	w.Update(0.1)
	if ball.Transform.Position.Y != 3 {
		t.Errorf("Expected paused ball to stay at 3, got %v", ball.Transform.Position.Y)
	}

	w.Paused = false
	w.Update(0.1)
	if ball.Transform.Position.Y >= 3 {
		t.Errorf("Expected ball to fall, got %v", ball.Transform.Position.Y)
	}
}

func TestUpdateMovesVelocityOnlyObjects(t *testing.T) {
	w := New(physics.DefaultConfig())
	marker := engine.NewGameObject("marker")
	marker.AddComponent(components.NewVelocity(rl.Vector3{X: 2}, rl.Vector3{}))
	w.Spawn(marker)

	w.Update(0.5)
	if marker.Transform.Position.X != 1 {
		t.Errorf("Expected X 1, got %v", marker.Transform.Position.X)
	}
}

func TestDespawnAndClear(t *testing.T) {
	w := New(physics.DefaultConfig())
	a := newBall("a", rl.Vector3{})
	b := newBall("b", rl.Vector3{X: 5})
	w.Spawn(a)
	w.Spawn(b)

	w.Despawn(a)
	if w.Scene.FindByUID(a.UID) != nil || w.Physics.DynamicObjectCount() != 1 {
		t.Error("Expected a to be gone from scene and physics")
	}

	w.Clear()
	if len(w.Scene.GameObjects) != 0 || w.Physics.DynamicObjectCount() != 0 {
		t.Error("Expected empty world after Clear")
	}
}
