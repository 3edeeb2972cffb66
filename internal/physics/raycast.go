package physics

import (
	"rigid3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Raycast returns the closest collider hit by the ray within maxDistance.
// Leaves are pruned with the broadphase tree, so only objects seen by the
// last Step are considered.
func (p *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (engine.RaycastResult, bool) {
	if rl.Vector3LengthSqr(direction) < 1e-12 || maxDistance <= 0 {
		return engine.RaycastResult{}, false
	}
	direction = rl.Vector3Normalize(direction)

	var closest engine.RaycastResult
	hit := false
	tree := p.broadphase.Tree()
	tree.RayCast(origin, direction, maxDistance, func(id NodeID, maxDist float32) float32 {
		obj, ok := p.registered[tree.Entity(id)]
		if !ok {
			return maxDist
		}
		c, ok := poseCollider(obj)
		if !ok {
			return maxDist
		}
		t, normal, ok := raycastCollider(&c, origin, direction, maxDist)
		if !ok {
			return maxDist
		}
		closest = engine.RaycastResult{
			GameObject: obj,
			Point:      rl.Vector3Add(origin, rl.Vector3Scale(direction, t)),
			Normal:     normal,
			Distance:   t,
		}
		hit = true
		return t
	})
	return closest, hit
}

func raycastCollider(c *collider, origin, dir rl.Vector3, maxDist float32) (float32, rl.Vector3, bool) {
	switch c.shape.Kind {
	case ShapeSphere:
		return raycastSphere(origin, dir, c.center, c.shape.Radius, maxDist)
	case ShapeBox:
		return raycastOBB(origin, dir, c.obb(), maxDist)
	case ShapeCapsule:
		a, b := c.segment()
		return raycastCapsule(origin, dir, a, b, c.shape.Radius, maxDist)
	}
	return 0, rl.Vector3{}, false
}

func raycastSphere(origin, dir, center rl.Vector3, radius, maxDist float32) (float32, rl.Vector3, bool) {
	oc := rl.Vector3Subtract(origin, center)
	b := rl.Vector3DotProduct(oc, dir)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, rl.Vector3{}, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 || t > maxDist {
		return 0, rl.Vector3{}, false
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(dir, t))
	return t, rl.Vector3Normalize(rl.Vector3Subtract(point, center)), true
}

// raycastOBB runs the slab test in box space.
func raycastOBB(origin, dir rl.Vector3, o OBB, maxDist float32) (float32, rl.Vector3, bool) {
	lo := o.local(origin)
	ld := rl.Vector3{
		X: rl.Vector3DotProduct(dir, o.Axes[0]),
		Y: rl.Vector3DotProduct(dir, o.Axes[1]),
		Z: rl.Vector3DotProduct(dir, o.Axes[2]),
	}
	org := [3]float32{lo.X, lo.Y, lo.Z}
	d := [3]float32{ld.X, ld.Y, ld.Z}

	tmin, tmax := float32(0), maxDist
	axis, sign := -1, float32(0)
	for i := 0; i < 3; i++ {
		h := o.half(i)
		if math32.Abs(d[i]) < 1e-9 {
			if org[i] < -h || org[i] > h {
				return 0, rl.Vector3{}, false
			}
			continue
		}
		t1 := (-h - org[i]) / d[i]
		t2 := (h - org[i]) / d[i]
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis, sign = i, s
		}
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, rl.Vector3{}, false
		}
	}
	if axis < 0 {
		// Origin inside the box.
		return 0, rl.Vector3Negate(dir), true
	}
	return tmin, rl.Vector3Scale(o.Axes[axis], sign), true
}

// raycastCapsule intersects the ray with the capsule's cylinder and caps.
func raycastCapsule(origin, dir, a, b rl.Vector3, radius, maxDist float32) (float32, rl.Vector3, bool) {
	best := maxDist
	var bestN rl.Vector3
	hit := false

	axis := rl.Vector3Subtract(b, a)
	length := rl.Vector3Length(axis)
	if length > 1e-6 {
		u := rl.Vector3Scale(axis, 1/length)
		ao := rl.Vector3Subtract(origin, a)
		dPerp := rl.Vector3Subtract(dir, rl.Vector3Scale(u, rl.Vector3DotProduct(dir, u)))
		oPerp := rl.Vector3Subtract(ao, rl.Vector3Scale(u, rl.Vector3DotProduct(ao, u)))
		qa := rl.Vector3DotProduct(dPerp, dPerp)
		qb := rl.Vector3DotProduct(oPerp, dPerp)
		qc := rl.Vector3DotProduct(oPerp, oPerp) - radius*radius
		if disc := qb*qb - qa*qc; qa > 1e-12 && disc >= 0 {
			t := (-qb - math32.Sqrt(disc)) / qa
			if t >= 0 && t <= best {
				p := rl.Vector3Add(origin, rl.Vector3Scale(dir, t))
				s := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), u)
				if s >= 0 && s <= length {
					onAxis := rl.Vector3Add(a, rl.Vector3Scale(u, s))
					best, bestN, hit = t, rl.Vector3Normalize(rl.Vector3Subtract(p, onAxis)), true
				}
			}
		}
	}
	for _, end := range [2]rl.Vector3{a, b} {
		if t, n, ok := raycastSphere(origin, dir, end, radius, best); ok && t <= best {
			best, bestN, hit = t, n, true
		}
	}
	return best, bestN, hit
}
