// Package geom defines the canonical test volumes (cylinder, rectangular
// prism) and the axis-aligned bounding box used for spatial extents.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume is a closed region of space that can be tested for point
// containment.
type Volume interface {
	Contains(p mgl64.Vec3) bool
}

// Cylinder is defined by the centers of its two circular faces and its
// radius. The axis runs from X0 (bottom) to X1 (top).
type Cylinder struct {
	X0, X1 mgl64.Vec3
	Radius float64
}

// Axis returns the vector from the bottom face center to the top face
// center.
func (cy Cylinder) Axis() mgl64.Vec3 {
	return cy.X1.Sub(cy.X0)
}

// Length returns the axial length of the cylinder.
func (cy Cylinder) Length() float64 {
	return cy.Axis().Len()
}

// Contains reports whether p lies inside the cylinder: its projection
// onto the axis must fall within [0, Length] and its perpendicular
// distance from the axis must not exceed the radius.
func (cy Cylinder) Contains(p mgl64.Vec3) bool {
	axis := cy.Axis()
	length := axis.Len()
	if length == 0 {
		return false
	}
	rel := p.Sub(cy.X0)
	l := axis.Dot(rel) / length
	if l < 0 || l > length {
		return false
	}
	perp := rel.Cross(axis).Len() / length
	return perp <= cy.Radius
}

// Prism is a rectangular prism defined by the centers of its two
// rectangular faces, the full side lengths SizeX and SizeY of the face,
// and an in-plane rotation Theta (radians) applied to hit offsets
// before testing them against the half-widths.
type Prism struct {
	X0, X1       mgl64.Vec3
	SizeX, SizeY float64
	Theta        float64
}

// Axis returns the vector from the bottom face center to the top face
// center.
func (pr Prism) Axis() mgl64.Vec3 {
	return pr.X1.Sub(pr.X0)
}

// Length returns the axial length of the prism.
func (pr Prism) Length() float64 {
	return pr.Axis().Len()
}

// Contains reports whether p lies inside the prism. The offset from X0
// is rotated by Theta about z, then its axial projection is bounded by
// [0, Length] and its local x/y components by the half-widths.
func (pr Prism) Contains(p mgl64.Vec3) bool {
	axis := pr.Axis()
	length := axis.Len()
	if length == 0 {
		return false
	}
	local := mgl64.Rotate3DZ(pr.Theta).Mul3x1(p.Sub(pr.X0))
	l := axis.Dot(local) / length
	if l < 0 || l > length {
		return false
	}
	return math.Abs(local.X()) <= pr.SizeX/2 && math.Abs(local.Y()) <= pr.SizeY/2
}
