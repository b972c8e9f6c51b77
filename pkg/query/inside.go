package query

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

// ErrNoHitsInside is returned by MeanPositionInside when no hit lies
// inside the volume. Callers that cannot tolerate it should check
// AnyInside first.
var ErrNoHitsInside = errors.New("query: no hits inside volume")

// CountInside returns the number of hits contained in the volume.
func (e *Engine) CountInside(c *hits.Collection, v geom.Volume) int {
	n := 0
	for _, h := range c.Hits() {
		if v.Contains(h.Position) {
			n++
		}
	}
	return n
}

// AnyInside reports whether at least one hit is contained in the
// volume.
func (e *Engine) AnyInside(c *hits.Collection, v geom.Volume) bool {
	for _, h := range c.Hits() {
		if v.Contains(h.Position) {
			return true
		}
	}
	return false
}

// AllInside reports whether every hit is contained in the volume. An
// empty collection is vacuously all-inside.
func (e *Engine) AllInside(c *hits.Collection, v geom.Volume) bool {
	return e.CountInside(c, v) == c.Len()
}

// EnergyInside sums the energies of the hits contained in the volume.
func (e *Engine) EnergyInside(c *hits.Collection, v geom.Volume) float64 {
	sum := 0.0
	for _, h := range c.Hits() {
		if v.Contains(h.Position) {
			sum += h.Energy
		}
	}
	return sum
}

// MeanPositionInside returns the arithmetic mean position of the hits
// contained in the volume. It returns ErrNoHitsInside when none are.
func (e *Engine) MeanPositionInside(c *hits.Collection, v geom.Volume) (mgl64.Vec3, error) {
	var sum mgl64.Vec3
	n := 0
	for _, h := range c.Hits() {
		if v.Contains(h.Position) {
			sum = sum.Add(h.Position)
			n++
		}
	}
	if n == 0 {
		return mgl64.Vec3{}, ErrNoHitsInside
	}
	return sum.Mul(1 / float64(n)), nil
}
