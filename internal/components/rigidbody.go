package components

import (
	"rigid3d/internal/engine"

	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	engine.RegisterComponent("Rigidbody", func() engine.Serializable {
		return NewRigidbody()
	})
}

// BodyKind selects how the solver treats a body.
type BodyKind uint8

const (
	// Static bodies never move and have infinite mass.
	Static BodyKind = iota
	// Dynamic bodies respond to gravity, drag and contact impulses.
	Dynamic
	// Kinematic bodies move by their set velocity and are never pushed.
	Kinematic
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

// ParseBodyKind is the inverse of BodyKind.String.
func ParseBodyKind(s string) (BodyKind, bool) {
	switch s {
	case "static":
		return Static, true
	case "dynamic":
		return Dynamic, true
	case "kinematic":
		return Kinematic, true
	}
	return Static, false
}

type Rigidbody struct {
	engine.BaseComponent
	Kind        BodyKind
	Mass        float32
	Friction    float32
	Restitution float32 // 0 = no bounce, 1 = perfectly elastic
	Drag        float32
	AngularDrag float32
	UseGravity  bool

	// LocalInertia is the body-space inertia tensor. Left zero, the physics
	// world derives it from the collider shape and mass.
	LocalInertia mgl32.Mat3
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Kind:        Dynamic,
		Mass:        1.0,
		Friction:    0.5,
		Restitution: 0.3,
		Drag:        0.0,
		AngularDrag: 0.05,
		UseGravity:  true,
	}
}

// InverseMass is 1/Mass for dynamic bodies and 0 for everything else.
func (r *Rigidbody) InverseMass() float32 {
	if r.Kind != Dynamic || r.Mass <= 0 {
		return 0
	}
	return 1 / r.Mass
}

// TypeName implements engine.Serializable
func (r *Rigidbody) TypeName() string {
	return "Rigidbody"
}

// Serialize implements engine.Serializable
func (r *Rigidbody) Serialize() map[string]any {
	data := map[string]any{
		"type":        "Rigidbody",
		"kind":        r.Kind.String(),
		"mass":        r.Mass,
		"friction":    r.Friction,
		"restitution": r.Restitution,
		"drag":        r.Drag,
		"angularDrag": r.AngularDrag,
		"useGravity":  r.UseGravity,
	}
	if r.LocalInertia != (mgl32.Mat3{}) {
		inertia := r.LocalInertia
		data["localInertia"] = inertia[:]
	}
	return data
}

// Deserialize implements engine.Serializable
func (r *Rigidbody) Deserialize(data map[string]any) {
	if s, ok := data["kind"].(string); ok {
		if k, ok := ParseBodyKind(s); ok {
			r.Kind = k
		}
	}
	if m, ok := data["mass"].(float64); ok {
		r.Mass = float32(m)
	}
	if f, ok := data["friction"].(float64); ok {
		r.Friction = float32(f)
	}
	if e, ok := data["restitution"].(float64); ok {
		r.Restitution = float32(e)
	}
	if d, ok := data["drag"].(float64); ok {
		r.Drag = float32(d)
	}
	if d, ok := data["angularDrag"].(float64); ok {
		r.AngularDrag = float32(d)
	}
	if g, ok := data["useGravity"].(bool); ok {
		r.UseGravity = g
	}
	if f, ok := floatsFromAny(data["localInertia"], 9); ok {
		copy(r.LocalInertia[:], f)
	}
}
