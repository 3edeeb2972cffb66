package components

import (
	"rigid3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// worldOffset maps a local collider offset to world space.
func worldOffset(g *engine.GameObject, offset rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3Multiply(offset, g.WorldScale())
	return rl.Vector3Add(g.WorldPosition(), rl.Vector3RotateByQuaternion(scaled, g.WorldRotation()))
}

func vecToSlice(v rl.Vector3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}

// floatsFromAny reads n floats from either []float32 (fresh Serialize
// output) or []any (decoded JSON).
func floatsFromAny(v any, n int) ([]float32, bool) {
	switch s := v.(type) {
	case []float32:
		if len(s) == n {
			return s, true
		}
	case []any:
		if len(s) != n {
			return nil, false
		}
		out := make([]float32, n)
		for i, e := range s {
			f, ok := e.(float64)
			if !ok {
				return nil, false
			}
			out[i] = float32(f)
		}
		return out, true
	}
	return nil, false
}

func vecFromAny(v any) (rl.Vector3, bool) {
	f, ok := floatsFromAny(v, 3)
	if !ok {
		return rl.Vector3{}, false
	}
	return rl.Vector3{X: f[0], Y: f[1], Z: f[2]}, true
}
