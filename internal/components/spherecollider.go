package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("SphereCollider", func() engine.Serializable {
		return NewSphereCollider(0.5)
	})
}

type SphereCollider struct {
	engine.BaseComponent
	Radius float32
	Offset rl.Vector3 // local space
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		Radius: radius,
		Offset: rl.Vector3{},
	}
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	return worldOffset(s.GetGameObject(), s.Offset)
}

func (s *SphereCollider) TypeName() string {
	return "SphereCollider"
}

func (s *SphereCollider) Serialize() map[string]any {
	return map[string]any{
		"type":   "SphereCollider",
		"radius": s.Radius,
		"offset": vecToSlice(s.Offset),
	}
}

func (s *SphereCollider) Deserialize(data map[string]any) {
	if r, ok := data["radius"].(float64); ok {
		s.Radius = float32(r)
	}
	if o, ok := vecFromAny(data["offset"]); ok {
		s.Offset = o
	}
}
