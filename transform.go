package figdraw

import "math"

// Transform represents a 4x4 homogeneous transformation matrix in row-major
// order. The z row and column are carried but unused by the 2D operations;
// they are reserved so the wire format does not change when 3D transforms
// are introduced.
//
// For 2D work only six entries vary:
//
//	| M00 M01  .  M03 |     x' = M00*x + M01*y + M03
//	| M10 M11  .  M13 |     y' = M10*x + M11*y + M13
//	|  .   .   1   .  |
//	|  .   .   .   1  |
//
// Transform is an immutable value type; all methods return new values.
type Transform struct {
	M [16]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translate2D returns a transform translating by (x, y).
func Translate2D(x, y float64) Transform {
	t := Identity()
	t.M[3] = x
	t.M[7] = y
	return t
}

// Scale2D returns a transform scaling by (sx, sy) about the origin.
func Scale2D(sx, sy float64) Transform {
	t := Identity()
	t.M[0] = sx
	t.M[5] = sy
	return t
}

// Rotate2D returns a transform rotating by angle radians about the origin,
// counter-clockwise in the y-down coordinate system.
func Rotate2D(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	t := Identity()
	t.M[0] = cos
	t.M[1] = -sin
	t.M[4] = sin
	t.M[5] = cos
	return t
}

// Mul returns the product t * other. Composition is associative but not
// commutative: the result applies other first, then t.
func (t Transform) Mul(other Transform) Transform {
	var out Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t.M[row*4+k] * other.M[k*4+col]
			}
			out.M[row*4+col] = sum
		}
	}
	return out
}

// Apply transforms the point by t.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.M[0]*p.X + t.M[1]*p.Y + t.M[3],
		Y: t.M[4]*p.X + t.M[5]*p.Y + t.M[7],
	}
}

// Translation returns the translation components of the transform.
func (t Transform) Translation() Point {
	return Point{X: t.M[3], Y: t.M[7]}
}

// Invert returns the inverse of the 2D portion of the transform. The second
// return value is false when the matrix is singular, in which case the
// identity transform is returned.
func (t Transform) Invert() (Transform, bool) {
	det := t.M[0]*t.M[5] - t.M[1]*t.M[4]
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	invDet := 1.0 / det
	out := Identity()
	out.M[0] = t.M[5] * invDet
	out.M[1] = -t.M[1] * invDet
	out.M[4] = -t.M[4] * invDet
	out.M[5] = t.M[0] * invDet
	out.M[3] = -(out.M[0]*t.M[3] + out.M[1]*t.M[7])
	out.M[7] = -(out.M[4]*t.M[3] + out.M[5]*t.M[7])
	return out, true
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// IsTranslationOnly reports whether the transform is a pure translation
// (including the identity).
func (t Transform) IsTranslationOnly() bool {
	u := t
	u.M[3] = 0
	u.M[7] = 0
	return u == Identity()
}

// Translated returns the transform composed with a translation by (dx, dy)
// applied after t.
func (t Transform) Translated(dx, dy float64) Transform {
	return Translate2D(dx, dy).Mul(t)
}

// Equal reports whether the two transforms agree within tolerance on every
// entry. Use this instead of == when values come through float arithmetic.
func (t Transform) Equal(other Transform, tolerance float64) bool {
	for i := range t.M {
		if math.Abs(t.M[i]-other.M[i]) > tolerance {
			return false
		}
	}
	return true
}

// TransformStack maintains cumulative transforms under a save/restore
// discipline. The stack starts with the identity and can never be emptied:
// Pop below one entry is a no-op. Push composes the incoming transform with
// the current top, so Cur always holds the full root-to-here product and
// never a lone, uncomposed local transform.
//
// This is the backing structure for the renderer's Save/Restore tasks.
// TransformStack is not safe for concurrent use.
type TransformStack struct {
	stack []Transform
}

// NewTransformStack creates a stack holding only the identity transform.
func NewTransformStack() *TransformStack {
	s := &TransformStack{stack: make([]Transform, 1, 16)}
	s.stack[0] = Identity()
	return s
}

// Cur returns the current cumulative transform.
func (s *TransformStack) Cur() Transform {
	return s.stack[len(s.stack)-1]
}

// Push composes t with the current top and pushes the product.
func (s *TransformStack) Push(t Transform) {
	s.stack = append(s.stack, s.Cur().Mul(t))
}

// Save pushes a copy of the current cumulative transform, to be unwound by
// a matching Pop.
func (s *TransformStack) Save() {
	s.stack = append(s.stack, s.Cur())
}

// Translate composes a translation into the current top in place.
func (s *TransformStack) Translate(dx, dy float64) {
	top := len(s.stack) - 1
	s.stack[top] = s.stack[top].Mul(Translate2D(dx, dy))
}

// Pop removes the top entry, returning to the previous cumulative state.
// Popping the last remaining entry is a no-op.
func (s *TransformStack) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Depth returns the number of entries on the stack. The minimum is 1.
func (s *TransformStack) Depth() int {
	return len(s.stack)
}
