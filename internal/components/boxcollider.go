package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("BoxCollider", func() engine.Serializable {
		return NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	})
}

// BoxCollider is an oriented box following the object's rotation.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3 // full extents before scale
	Offset rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

func (b *BoxCollider) GetCenter() rl.Vector3 {
	return worldOffset(b.GetGameObject(), b.Offset)
}

// HalfExtents returns the scaled half size.
func (b *BoxCollider) HalfExtents() rl.Vector3 {
	scale := b.GetGameObject().WorldScale()
	return rl.Vector3Scale(rl.Vector3Multiply(b.Size, scale), 0.5)
}

func (b *BoxCollider) TypeName() string {
	return "BoxCollider"
}

func (b *BoxCollider) Serialize() map[string]any {
	return map[string]any{
		"type":   "BoxCollider",
		"size":   vecToSlice(b.Size),
		"offset": vecToSlice(b.Offset),
	}
}

func (b *BoxCollider) Deserialize(data map[string]any) {
	if s, ok := vecFromAny(data["size"]); ok {
		b.Size = s
	}
	if o, ok := vecFromAny(data["offset"]); ok {
		b.Offset = o
	}
}
