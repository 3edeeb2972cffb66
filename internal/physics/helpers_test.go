package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func approx(got, want, tol float32) bool {
	return math32.Abs(got-want) <= tol
}

func approxVec(got, want rl.Vector3, tol float32) bool {
	return approx(got.X, want.X, tol) && approx(got.Y, want.Y, tol) && approx(got.Z, want.Z, tol)
}
