// Package math provides the world-plane vector used by navigation code.
//
// Every product is wrapped in an explicit float64 conversion. Go never fuses an
// explicitly rounded product into a multiply-add, so results are bit-identical
// on every architecture the simulation runs on.
package math

import "math"

// Vec2 is a position or direction on the ground plane. Z is the second
// horizontal axis; height is never carried here.
type Vec2 struct {
	X, Z float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{float64(v.X * s), float64(v.Z * s)}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return float64(v.X*other.X) + float64(v.Z*other.Z)
}

// LengthSq returns the squared magnitude.
func (v Vec2) LengthSq() float64 {
	return v.Dot(v)
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// DistanceSq returns the squared distance to another point.
func (v Vec2) DistanceSq(other Vec2) float64 {
	return v.Sub(other).LengthSq()
}

// Lerp returns the point a fraction t of the way from v to other.
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return v.Add(other.Sub(v).Scale(t))
}

// PathLength returns the summed segment length of a polyline.
func PathLength(points []Vec2) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}
