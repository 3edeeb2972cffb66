package physics

import (
	"fmt"

	"rigid3d/internal/components"
	"rigid3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind is the closed set of collision primitives.
type ShapeKind uint8

const (
	ShapeNone ShapeKind = iota
	ShapeSphere
	ShapeBox
	ShapeCapsule
	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	case ShapeNone:
		return "none"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// Shape is a collider in body space, already scaled.
type Shape struct {
	Kind        ShapeKind
	Radius      float32    // sphere, capsule
	HalfExtents rl.Vector3 // box
	HalfHeight  float32    // capsule segment half length
}

// collider is a shape posed in world space for one tick.
type collider struct {
	uid    uint64
	obj    *engine.GameObject
	shape  Shape
	center rl.Vector3
	rot    rl.Quaternion
	axes   [3]rl.Vector3
}

func maxAbsComponent(v rl.Vector3) float32 {
	return math32.Max(math32.Abs(v.X), math32.Max(math32.Abs(v.Y), math32.Abs(v.Z)))
}

// shapeOf reads the first collider component on obj. The second result is
// false when obj has no collider.
func shapeOf(obj *engine.GameObject) (Shape, rl.Vector3, bool) {
	scale := obj.WorldScale()
	if s := engine.GetComponent[*components.SphereCollider](obj); s != nil {
		return Shape{Kind: ShapeSphere, Radius: s.Radius * maxAbsComponent(scale)}, s.GetCenter(), true
	}
	if b := engine.GetComponent[*components.BoxCollider](obj); b != nil {
		h := b.HalfExtents()
		h = rl.Vector3{X: math32.Abs(h.X), Y: math32.Abs(h.Y), Z: math32.Abs(h.Z)}
		return Shape{Kind: ShapeBox, HalfExtents: h}, b.GetCenter(), true
	}
	if c := engine.GetComponent[*components.CapsuleCollider](obj); c != nil {
		radial := math32.Max(math32.Abs(scale.X), math32.Abs(scale.Z))
		return Shape{
			Kind:       ShapeCapsule,
			Radius:     c.Radius * radial,
			HalfHeight: c.HalfHeight * math32.Abs(scale.Y),
		}, c.GetCenter(), true
	}
	return Shape{}, rl.Vector3{}, false
}

// poseCollider builds the world-space collider of obj.
func poseCollider(obj *engine.GameObject) (collider, bool) {
	shape, center, ok := shapeOf(obj)
	if !ok {
		return collider{}, false
	}
	rot := obj.WorldRotation()
	return collider{
		uid:    obj.UID,
		obj:    obj,
		shape:  shape,
		center: center,
		rot:    rot,
		axes:   rotationAxes(rot),
	}, true
}

func rotationAxes(q rl.Quaternion) [3]rl.Vector3 {
	return [3]rl.Vector3{
		rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q),
		rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, q),
		rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q),
	}
}

// bounds is the tight world AABB of the collider.
func (c *collider) bounds() AABB {
	switch c.shape.Kind {
	case ShapeSphere:
		r := c.shape.Radius
		return NewAABBFromHalf(c.center, rl.Vector3{X: r, Y: r, Z: r})
	case ShapeBox:
		return obbBounds(c.center, c.shape.HalfExtents, c.axes)
	case ShapeCapsule:
		p, q := c.segment()
		r := rl.Vector3{X: c.shape.Radius, Y: c.shape.Radius, Z: c.shape.Radius}
		return AABB{
			Min: rl.Vector3Subtract(rl.Vector3Min(p, q), r),
			Max: rl.Vector3Add(rl.Vector3Max(p, q), r),
		}
	}
	return AABB{Min: c.center, Max: c.center}
}

func (c *collider) segment() (rl.Vector3, rl.Vector3) {
	h := rl.Vector3Scale(c.axes[1], c.shape.HalfHeight)
	return rl.Vector3Subtract(c.center, h), rl.Vector3Add(c.center, h)
}

func (c *collider) obb() OBB {
	return NewOBB(c.center, c.shape.HalfExtents, c.rot)
}

// LocalInertia returns the body-space inertia tensor of a solid shape of the
// given mass.
func LocalInertia(s Shape, mass float32) mgl32.Mat3 {
	switch s.Kind {
	case ShapeSphere:
		i := 0.4 * mass * s.Radius * s.Radius
		return mgl32.Diag3(mgl32.Vec3{i, i, i})
	case ShapeBox:
		x, y, z := 2*s.HalfExtents.X, 2*s.HalfExtents.Y, 2*s.HalfExtents.Z
		k := mass / 12
		return mgl32.Diag3(mgl32.Vec3{k * (y*y + z*z), k * (x*x + z*z), k * (x*x + y*y)})
	case ShapeCapsule:
		r, h := s.Radius, s.HalfHeight
		cylVol := math32.Pi * r * r * 2 * h
		capVol := 4.0 / 3.0 * math32.Pi * r * r * r
		mc := mass * cylVol / (cylVol + capVol)
		ms := mass - mc
		axial := mc*r*r/2 + ms*0.4*r*r
		lateral := mc*(r*r/4+h*h/3) + ms*(0.4*r*r+h*h+0.75*h*r)
		return mgl32.Diag3(mgl32.Vec3{lateral, axial, lateral})
	}
	return mgl32.Ident3()
}

func toMgl(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// rotationMat3 converts a unit quaternion to a column-major rotation matrix.
func rotationMat3(q rl.Quaternion) mgl32.Mat3 {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}.Mat4().Mat3()
}

// worldInverseInertia is R * I^-1 * R^T.
func worldInverseInertia(local mgl32.Mat3, q rl.Quaternion) mgl32.Mat3 {
	if local.Det() == 0 {
		return mgl32.Mat3{}
	}
	r := rotationMat3(q)
	return r.Mul3(local.Inv()).Mul3(r.Transpose())
}
