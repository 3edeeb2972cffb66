package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Velocity", func() engine.Serializable {
		return &Velocity{}
	})
}

// Velocity holds linear velocity (units/s) and angular velocity (rad/s,
// world axes). Objects without a Rigidbody are moved by it directly.
type Velocity struct {
	engine.BaseComponent
	Linear  rl.Vector3
	Angular rl.Vector3
}

func NewVelocity(linear, angular rl.Vector3) *Velocity {
	return &Velocity{Linear: linear, Angular: angular}
}

func (v *Velocity) TypeName() string {
	return "Velocity"
}

func (v *Velocity) Serialize() map[string]any {
	return map[string]any{
		"type":    "Velocity",
		"linear":  vecToSlice(v.Linear),
		"angular": vecToSlice(v.Angular),
	}
}

func (v *Velocity) Deserialize(data map[string]any) {
	if l, ok := vecFromAny(data["linear"]); ok {
		v.Linear = l
	}
	if a, ok := vecFromAny(data["angular"]); ok {
		v.Angular = a
	}
}
