package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3Scale(size, 0.5)
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// NewAABBFromHalf creates an AABB from a center and half extents.
func NewAABBFromHalf(center, half rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Contains reports whether b lies entirely inside a.
func (a AABB) Contains(b AABB) bool {
	return a.Min.X <= b.Min.X && a.Min.Y <= b.Min.Y && a.Min.Z <= b.Min.Z &&
		a.Max.X >= b.Max.X && a.Max.Y >= b.Max.Y && a.Max.Z >= b.Max.Z
}

func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: rl.Vector3Min(a.Min, b.Min),
		Max: rl.Vector3Max(a.Max, b.Max),
	}
}

// Area is the surface area, the cost metric of the tree.
func (a AABB) Area() float32 {
	d := rl.Vector3Subtract(a.Max, a.Min)
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// Fatten pads every face by margin.
func (a AABB) Fatten(margin float32) AABB {
	m := rl.Vector3{X: margin, Y: margin, Z: margin}
	return AABB{Min: rl.Vector3Subtract(a.Min, m), Max: rl.Vector3Add(a.Max, m)}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) BoundingBox() rl.BoundingBox {
	return rl.NewBoundingBox(a.Min, a.Max)
}

// RayIntersect runs the slab test and returns the entry distance along dir.
// invDir is 1/dir per component (may be ±Inf).
func (a AABB) RayIntersect(origin, invDir rl.Vector3, maxDist float32) (float32, bool) {
	tmin := float32(0)
	tmax := maxDist
	o := [3]float32{origin.X, origin.Y, origin.Z}
	inv := [3]float32{invDir.X, invDir.Y, invDir.Z}
	lo := [3]float32{a.Min.X, a.Min.Y, a.Min.Z}
	hi := [3]float32{a.Max.X, a.Max.Y, a.Max.Z}
	for i := 0; i < 3; i++ {
		if math32.IsInf(inv[i], 0) {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) * inv[i]
		t2 := (hi[i] - o[i]) * inv[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// obbBounds returns the world AABB enclosing an oriented box.
func obbBounds(center rl.Vector3, half rl.Vector3, axes [3]rl.Vector3) AABB {
	ext := rl.Vector3{
		X: math32.Abs(axes[0].X)*half.X + math32.Abs(axes[1].X)*half.Y + math32.Abs(axes[2].X)*half.Z,
		Y: math32.Abs(axes[0].Y)*half.X + math32.Abs(axes[1].Y)*half.Y + math32.Abs(axes[2].Y)*half.Z,
		Z: math32.Abs(axes[0].Z)*half.X + math32.Abs(axes[1].Z)*half.Y + math32.Abs(axes[2].Z)*half.Z,
	}
	return NewAABBFromHalf(center, ext)
}
