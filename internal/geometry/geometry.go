package geometry

import "math"

type Size struct {
	Width  float64
	Height float64
}

type Point struct {
	X float64
	Y float64
}

func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// IsDegenerate reports whether the size is unusable for placement or motion,
// e.g. before the first layout measurement arrives.
func (s Size) IsDegenerate() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
