package world

import (
	"log"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"
)

// World ties a Scene to the PhysicsWorld that simulates it.
type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
	Paused  bool
}

func New(cfg physics.Config) *World {
	return &World{
		Scene:   engine.NewScene("Main"),
		Physics: physics.NewPhysicsWorld(cfg),
	}
}

// Spawn adds g to the scene, registers it with physics and starts it.
func (w *World) Spawn(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	w.Physics.AddObject(g)
	g.Start()
}

func (w *World) Despawn(g *engine.GameObject) {
	w.Physics.RemoveObject(g)
	w.Scene.RemoveGameObject(g)
}

// Update runs component updates, then one physics tick and the
// velocity-only integrator. Components still update while paused.
func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
	if w.Paused {
		return
	}
	w.Physics.Update(deltaTime)
	physics.IntegrateVelocityOnly(w.Scene.GameObjects, deltaTime)
}

// Clear despawns every object.
func (w *World) Clear() {
	objects := append([]*engine.GameObject(nil), w.Scene.GameObjects...)
	for _, g := range objects {
		w.Despawn(g)
	}
	log.Printf("World: cleared %d objects", len(objects))
}

// GetCollidableObjects returns all GameObjects that have a collider.
func (w *World) GetCollidableObjects() []*engine.GameObject {
	var result []*engine.GameObject
	for _, g := range w.Scene.GameObjects {
		if engine.GetComponent[*components.BoxCollider](g) != nil ||
			engine.GetComponent[*components.SphereCollider](g) != nil ||
			engine.GetComponent[*components.CapsuleCollider](g) != nil {
			result = append(result, g)
		}
	}
	return result
}
