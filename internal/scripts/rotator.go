package scripts

import (
	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rotator", func() engine.Serializable {
		return NewRotator(rl.Vector3{Y: 1}, 90)
	})
}

// Rotator spins an object around Axis by driving its angular velocity, so a
// kinematic body pushes what it touches. Speed is in degrees per second.
type Rotator struct {
	engine.BaseComponent
	Axis  rl.Vector3
	Speed float32
}

func NewRotator(axis rl.Vector3, speed float32) *Rotator {
	return &Rotator{Axis: axis, Speed: speed}
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil {
		return
	}
	vel := engine.GetComponent[*components.Velocity](g)
	if vel == nil || rl.Vector3LengthSqr(r.Axis) == 0 {
		return
	}
	vel.Angular = rl.Vector3Scale(rl.Vector3Normalize(r.Axis), r.Speed*rl.Deg2rad)
}

func (r *Rotator) TypeName() string {
	return "Rotator"
}

func (r *Rotator) Serialize() map[string]any {
	return map[string]any{
		"type":  "Rotator",
		"axis":  []float32{r.Axis.X, r.Axis.Y, r.Axis.Z},
		"speed": r.Speed,
	}
}

func (r *Rotator) Deserialize(data map[string]any) {
	if v, ok := data["speed"].(float64); ok {
		r.Speed = float32(v)
	}
	if axis, ok := vec3(data["axis"]); ok {
		r.Axis = axis
	}
}
