package geom

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box. An AABB computed from an empty
// hit collection is inverted (Min > Max on every axis); IsValid reports
// that case.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// IsValid reports whether the box encloses any space at all. An
// inverted box (produced by scanning zero points) is invalid.
func (a AABB) IsValid() bool {
	return a.Min.X() <= a.Max.X() &&
		a.Min.Y() <= a.Max.Y() &&
		a.Min.Z() <= a.Max.Z()
}

// ContainsPoint reports whether the point lies inside the box.
func (a AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() <= a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

// Overlaps reports whether two boxes overlap on all three axes.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}
