package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("CapsuleCollider", func() engine.Serializable {
		return NewCapsuleCollider(0.5, 0.5)
	})
}

// CapsuleCollider is a segment along the local Y axis swept by Radius.
// HalfHeight is half the segment length, excluding the caps.
type CapsuleCollider struct {
	engine.BaseComponent
	Radius     float32
	HalfHeight float32
	Offset     rl.Vector3
}

func NewCapsuleCollider(radius, halfHeight float32) *CapsuleCollider {
	return &CapsuleCollider{Radius: radius, HalfHeight: halfHeight}
}

func (c *CapsuleCollider) GetCenter() rl.Vector3 {
	return worldOffset(c.GetGameObject(), c.Offset)
}

// Segment returns the world-space end points of the capsule axis.
func (c *CapsuleCollider) Segment() (rl.Vector3, rl.Vector3) {
	g := c.GetGameObject()
	center := c.GetCenter()
	axis := rl.Vector3RotateByQuaternion(rl.Vector3{Y: c.HalfHeight * g.WorldScale().Y}, g.WorldRotation())
	return rl.Vector3Subtract(center, axis), rl.Vector3Add(center, axis)
}

func (c *CapsuleCollider) TypeName() string {
	return "CapsuleCollider"
}

func (c *CapsuleCollider) Serialize() map[string]any {
	return map[string]any{
		"type":       "CapsuleCollider",
		"radius":     c.Radius,
		"halfHeight": c.HalfHeight,
		"offset":     vecToSlice(c.Offset),
	}
}

func (c *CapsuleCollider) Deserialize(data map[string]any) {
	if r, ok := data["radius"].(float64); ok {
		c.Radius = float32(r)
	}
	if h, ok := data["halfHeight"].(float64); ok {
		c.HalfHeight = float32(h)
	}
	if o, ok := vecFromAny(data["offset"]); ok {
		c.Offset = o
	}
}
