package world

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type SceneFile struct {
	Gravity *GravityDef `json:"gravity,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

type GravityDef struct {
	Direction [3]float32 `json:"direction"`
	Magnitude float32    `json:"magnitude"`
}

type ObjectDef struct {
	Name       string           `json:"name"`
	Tags       []string         `json:"tags,omitempty"`
	Position   [3]float32       `json:"position"`
	Rotation   [4]float32       `json:"rotation"` // quaternion x, y, z, w
	Scale      [3]float32       `json:"scale"`
	Components []map[string]any `json:"components"`
}

// --- Loading ---

// LoadScene spawns every object of the scene file at path. Components whose
// type is not registered are skipped with a log line.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}

	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	if sf.Gravity != nil {
		w.Physics.Gravity = physics.NewGravity(vec3(sf.Gravity.Direction), sf.Gravity.Magnitude)
	}

	for _, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = vec3(objDef.Position)

		// A zero quaternion means no rotation was stored.
		if objDef.Rotation != [4]float32{} {
			r := objDef.Rotation
			g.Transform.Rotation = rl.QuaternionNormalize(rl.Quaternion{X: r[0], Y: r[1], Z: r[2], W: r[3]})
		}
		// Default scale to 1 if zero
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = vec3(objDef.Scale)
		}

		for _, raw := range objDef.Components {
			comp, err := engine.CreateComponent(raw)
			if err != nil {
				log.Printf("World: %s: skipping component: %v", objDef.Name, err)
				continue
			}
			g.AddComponent(comp)
		}

		w.Spawn(g)
	}

	log.Printf("World: loaded %d objects from %s", len(sf.Objects), path)
	return nil
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	gravity := w.Physics.Gravity
	sf := SceneFile{
		Gravity: &GravityDef{
			Direction: [3]float32{gravity.Direction.X, gravity.Direction.Y, gravity.Direction.Z},
			Magnitude: gravity.Magnitude,
		},
	}

	for _, g := range w.Scene.GameObjects {
		// Children are not persisted
		if g.Parent != nil {
			continue
		}
		// Skip code-managed objects
		if engine.GetComponent[*components.Shooter](g) != nil {
			continue
		}

		t := g.Transform
		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{t.Position.X, t.Position.Y, t.Position.Z},
			Rotation: [4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W},
			Scale:    [3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z},
		}

		for _, c := range g.Components() {
			if s, ok := c.(engine.Serializable); ok {
				objDef.Components = append(objDef.Components, s.Serialize())
			}
		}

		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
