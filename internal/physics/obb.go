package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, half extents and rotation.
func NewOBB(center, half rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{Center: center, HalfSize: half, Axes: rotationAxes(rotation)}
}

func (o OBB) half(i int) float32 {
	switch i {
	case 0:
		return o.HalfSize.X
	case 1:
		return o.HalfSize.Y
	}
	return o.HalfSize.Z
}

// projectedRadius is the half length of the box's shadow on axis.
func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*math32.Abs(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*math32.Abs(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*math32.Abs(rl.Vector3DotProduct(o.Axes[2], axis))
}

// local returns p in box coordinates.
func (o OBB) local(p rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(p, o.Center)
	return rl.Vector3{
		X: rl.Vector3DotProduct(d, o.Axes[0]),
		Y: rl.Vector3DotProduct(d, o.Axes[1]),
		Z: rl.Vector3DotProduct(d, o.Axes[2]),
	}
}

func (o OBB) world(l rl.Vector3) rl.Vector3 {
	p := o.Center
	p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[0], l.X))
	p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[1], l.Y))
	p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[2], l.Z))
	return p
}

// Corners returns the eight vertices.
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	for i := 0; i < 8; i++ {
		l := o.HalfSize
		if i&1 != 0 {
			l.X = -l.X
		}
		if i&2 != 0 {
			l.Y = -l.Y
		}
		if i&4 != 0 {
			l.Z = -l.Z
		}
		out[i] = o.world(l)
	}
	return out
}

// ContainsPoint reports whether p is inside the box grown by slack.
func (o OBB) ContainsPoint(p rl.Vector3, slack float32) bool {
	l := o.local(p)
	return math32.Abs(l.X) <= o.HalfSize.X+slack &&
		math32.Abs(l.Y) <= o.HalfSize.Y+slack &&
		math32.Abs(l.Z) <= o.HalfSize.Z+slack
}

// Support returns the vertex furthest along dir.
func (o OBB) Support(dir rl.Vector3) rl.Vector3 {
	l := o.HalfSize
	if rl.Vector3DotProduct(dir, o.Axes[0]) < 0 {
		l.X = -l.X
	}
	if rl.Vector3DotProduct(dir, o.Axes[1]) < 0 {
		l.Y = -l.Y
	}
	if rl.Vector3DotProduct(dir, o.Axes[2]) < 0 {
		l.Z = -l.Z
	}
	return o.world(l)
}

// minimumOverlap runs SAT over the 15 candidate axes and returns the axis of
// least overlap, oriented from a toward b. Edge axes must beat the best face
// axis by a margin so near-parallel edges don't win on noise.
func (a OBB) minimumOverlap(b OBB) (rl.Vector3, float32, bool) {
	t := rl.Vector3Subtract(b.Center, a.Center)
	best := float32(math32.MaxFloat32)
	var bestAxis rl.Vector3

	test := func(axis rl.Vector3) (float32, bool) {
		dist := rl.Vector3DotProduct(t, axis)
		overlap := a.projectedRadius(axis) + b.projectedRadius(axis) - math32.Abs(dist)
		return overlap, overlap >= 0
	}

	for _, axes := range [2][3]rl.Vector3{a.Axes, b.Axes} {
		for _, axis := range axes {
			overlap, ok := test(axis)
			if !ok {
				return rl.Vector3{}, 0, false
			}
			if overlap < best {
				best = overlap
				bestAxis = axis
			}
		}
	}

	faceBest := best
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			l := rl.Vector3Length(axis)
			if l < 1e-4 {
				continue
			}
			axis = rl.Vector3Scale(axis, 1/l)
			overlap, ok := test(axis)
			if !ok {
				return rl.Vector3{}, 0, false
			}
			if overlap < best && overlap < 0.95*faceBest-1e-3 {
				best = overlap
				bestAxis = axis
			}
		}
	}

	if rl.Vector3DotProduct(t, bestAxis) < 0 {
		bestAxis = rl.Vector3Negate(bestAxis)
	}
	return bestAxis, best, true
}

// ClosestPointOnOBB returns the closest point of the solid box to point.
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	l := o.local(point)
	l.X = clampf(l.X, -o.HalfSize.X, o.HalfSize.X)
	l.Y = clampf(l.Y, -o.HalfSize.Y, o.HalfSize.Y)
	l.Z = clampf(l.Z, -o.HalfSize.Z, o.HalfSize.Z)
	return o.world(l)
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
