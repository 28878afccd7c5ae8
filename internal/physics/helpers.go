package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// epsilon is the tolerance used for degenerate axes and parallel tests
const epsilon = 0.0001

// cross computes the cross product of two vectors
func cross(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func dot(a, b rl.Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// clampf restricts a value to a range
func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func vmin(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
}

func vmax(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
}

// component returns v's value along axis 0, 1 or 2
func component(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// unitAxis returns the world basis vector for axis 0, 1 or 2 scaled by sign
func unitAxis(axis int, sign float32) rl.Vector3 {
	switch axis {
	case 0:
		return rl.Vector3{X: sign}
	case 1:
		return rl.Vector3{Y: sign}
	default:
		return rl.Vector3{Z: sign}
	}
}

// transformPoint applies the full affine transform, translation included
func transformPoint(p rl.Vector3, m rl.Matrix) rl.Vector3 {
	return rl.Vector3Transform(p, m)
}

// transformDirection applies only the 3x3 rotation+scale block of m.
// Colliders are driven by rigid transforms with uniform scale, so this stands
// in for the transpose-inverse normal matrix.
func transformDirection(v rl.Vector3, m rl.Matrix) rl.Vector3 {
	return rl.Vector3{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z,
	}
}

// basisAxes returns the three transformed basis vectors (columns) of m, unnormalized
func basisAxes(m rl.Matrix) [3]rl.Vector3 {
	return [3]rl.Vector3{
		{X: m.M0, Y: m.M1, Z: m.M2},
		{X: m.M4, Y: m.M5, Z: m.M6},
		{X: m.M8, Y: m.M9, Z: m.M10},
	}
}

// axisScales returns the length of each transformed basis vector of m
func axisScales(m rl.Matrix) rl.Vector3 {
	axes := basisAxes(m)
	return rl.Vector3{
		X: rl.Vector3Length(axes[0]),
		Y: rl.Vector3Length(axes[1]),
		Z: rl.Vector3Length(axes[2]),
	}
}

// normalizeOr returns v normalized, or fallback when v is (near) zero
func normalizeOr(v, fallback rl.Vector3) rl.Vector3 {
	l := rl.Vector3Length(v)
	if l < epsilon {
		return fallback
	}
	return rl.Vector3Scale(v, 1/l)
}

// closestPointOnSegment returns the point on segment ab closest to p
func closestPointOnSegment(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := dot(ab, ab)
	if lenSq < epsilon*epsilon {
		return a
	}
	t := clampf(dot(rl.Vector3Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestPointsSegments returns the closest points between segments p1q1 and p2q2
func closestPointsSegments(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := dot(d1, d1)
	e := dot(d2, d2)
	f := dot(d2, r)

	var s, t float32
	const eps = epsilon * epsilon
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clampf(f/e, 0, 1)
	default:
		c := dot(d1, r)
		if e <= eps {
			s = clampf(-c/a, 0, 1)
		} else {
			b := dot(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}

	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}
