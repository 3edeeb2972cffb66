package scripts

import (
	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Oscillator", func() engine.Serializable {
		return NewOscillator(rl.Vector3{X: 1}, 2, 1, 0)
	})
}

// Oscillator moves an object back and forth along Axis through its starting
// point: offset(t) = Axis * Radius * sin(Speed*t + Phase). It sets velocity
// rather than position so kinematic bodies carry their motion into contacts.
type Oscillator struct {
	engine.BaseComponent
	Axis   rl.Vector3
	Radius float32
	Speed  float32 // radians per second
	Phase  float32
	time   float32
}

func NewOscillator(axis rl.Vector3, radius, speed, phase float32) *Oscillator {
	return &Oscillator{Axis: axis, Radius: radius, Speed: speed, Phase: phase}
}

func (o *Oscillator) Update(deltaTime float32) {
	g := o.GetGameObject()
	if g == nil {
		return
	}
	vel := engine.GetComponent[*components.Velocity](g)
	if vel == nil || rl.Vector3LengthSqr(o.Axis) == 0 {
		return
	}
	// Average velocity over [t, t+dt] so the displacement matches the
	// closed form exactly.
	before := math32.Sin(o.Speed*o.time + o.Phase)
	o.time += deltaTime
	after := math32.Sin(o.Speed*o.time + o.Phase)
	if deltaTime > 0 {
		vel.Linear = rl.Vector3Scale(rl.Vector3Normalize(o.Axis), o.Radius*(after-before)/deltaTime)
	}
}

func (o *Oscillator) TypeName() string {
	return "Oscillator"
}

func (o *Oscillator) Serialize() map[string]any {
	return map[string]any{
		"type":   "Oscillator",
		"axis":   []float32{o.Axis.X, o.Axis.Y, o.Axis.Z},
		"radius": o.Radius,
		"speed":  o.Speed,
		"phase":  o.Phase,
	}
}

func (o *Oscillator) Deserialize(data map[string]any) {
	getFloat := func(key string, fallback float32) float32 {
		if v, ok := data[key].(float64); ok {
			return float32(v)
		}
		return fallback
	}
	o.Radius = getFloat("radius", o.Radius)
	o.Speed = getFloat("speed", o.Speed)
	o.Phase = getFloat("phase", o.Phase)
	if axis, ok := vec3(data["axis"]); ok {
		o.Axis = axis
	}
}

// vec3 accepts []float32 from Serialize and []any from decoded JSON.
func vec3(v any) (rl.Vector3, bool) {
	switch s := v.(type) {
	case []float32:
		if len(s) == 3 {
			return rl.Vector3{X: s[0], Y: s[1], Z: s[2]}, true
		}
	case []any:
		if len(s) != 3 {
			return rl.Vector3{}, false
		}
		var out [3]float32
		for i, e := range s {
			f, ok := e.(float64)
			if !ok {
				return rl.Vector3{}, false
			}
			out[i] = float32(f)
		}
		return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}, true
	}
	return rl.Vector3{}, false
}
