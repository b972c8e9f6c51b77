package query

import (
	"math"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

// NoHitInside is the sentinel returned by the boundary-distance queries
// when no hit lies inside the volume. It is a valid-looking number;
// callers must test for it explicitly.
const NoHitInside = -1.0

// CylinderWallDistance returns, over the hits contained in the
// cylinder, the minimum of sqrt(r² − |p−x0|² + l²) where l is the axial
// offset of the hit from the base. The quantity under the root is a
// squared-length-like heuristic, not the Euclidean distance to the
// wall; it is kept as-is because downstream consumers calibrate
// against it. Returns NoHitInside when the cylinder contains no hit.
func (e *Engine) CylinderWallDistance(c *hits.Collection, cy geom.Cylinder) float64 {
	rad2 := cy.Radius * cy.Radius
	minD2 := rad2

	axis := cy.Axis()
	length := axis.Len()

	n := 0
	for _, h := range c.Hits() {
		if !cy.Contains(h.Position) {
			continue
		}
		rel := h.Position.Sub(cy.X0)
		l := axis.Dot(rel) / length
		d2 := rad2 - rel.LenSqr() + l*l
		if d2 < minD2 {
			minD2 = d2
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return math.Sqrt(minD2)
}

// CylinderTopDistance returns the minimum axial distance from a
// contained hit to the top face of the cylinder, or NoHitInside.
func (e *Engine) CylinderTopDistance(c *hits.Collection, cy geom.Cylinder) float64 {
	axis := cy.Axis()
	length := axis.Len()
	minD := length

	n := 0
	for _, h := range c.Hits() {
		if !cy.Contains(h.Position) {
			continue
		}
		d := length - axis.Dot(h.Position.Sub(cy.X0))/length
		if d < minD {
			minD = d
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return minD
}

// CylinderBottomDistance returns the minimum axial distance from a
// contained hit to the bottom face of the cylinder, or NoHitInside.
func (e *Engine) CylinderBottomDistance(c *hits.Collection, cy geom.Cylinder) float64 {
	axis := cy.Axis()
	length := axis.Len()
	minD := length

	n := 0
	for _, h := range c.Hits() {
		if !cy.Contains(h.Position) {
			continue
		}
		d := axis.Dot(h.Position.Sub(cy.X0)) / length
		if d < minD {
			minD = d
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return minD
}

// PrismWallDistance returns, over the hits contained in the prism, the
// minimum of min(SizeX/2 − |dx|, SizeY/2 − |dy|) where dx, dy are the
// raw offsets of the hit from the base center. The offsets are not
// rotated by Theta here, matching the containment test's reference
// counterpart. Returns NoHitInside when the prism contains no hit.
func (e *Engine) PrismWallDistance(c *hits.Collection, pr geom.Prism) float64 {
	minD := math.Max(pr.SizeX/2, pr.SizeY/2)

	n := 0
	for _, h := range c.Hits() {
		if !pr.Contains(h.Position) {
			continue
		}
		rel := h.Position.Sub(pr.X0)
		dx := pr.SizeX/2 - math.Abs(rel.X())
		dy := pr.SizeY/2 - math.Abs(rel.Y())
		d := math.Min(dx, dy)
		if d < minD {
			minD = d
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return minD
}

// PrismTopDistance returns the minimum axial distance from a contained
// hit to the top face of the prism, or NoHitInside.
func (e *Engine) PrismTopDistance(c *hits.Collection, pr geom.Prism) float64 {
	axis := pr.Axis()
	length := axis.Len()
	minD := length

	n := 0
	for _, h := range c.Hits() {
		if !pr.Contains(h.Position) {
			continue
		}
		d := length - axis.Dot(h.Position.Sub(pr.X0))/length
		if d < minD {
			minD = d
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return minD
}

// PrismBottomDistance returns the minimum axial distance from a
// contained hit to the bottom face of the prism, or NoHitInside.
func (e *Engine) PrismBottomDistance(c *hits.Collection, pr geom.Prism) float64 {
	axis := pr.Axis()
	length := axis.Len()
	minD := length

	n := 0
	for _, h := range c.Hits() {
		if !pr.Contains(h.Position) {
			continue
		}
		d := axis.Dot(h.Position.Sub(pr.X0)) / length
		if d < minD {
			minD = d
		}
		n++
	}
	if n == 0 {
		return NoHitInside
	}
	return minD
}
