// Package query implements the hit-geometry engine: volume containment
// and boundary-distance queries, projection extraction, sorting,
// shuffling, and aggregate statistics over a hit collection.
//
// The engine borrows the collection passed to each call and never keeps
// a reference beyond it. The only state an Engine owns is the three
// memoized projection collections, which are recomputed on demand.
package query

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

// Engine answers geometric and statistical queries over hit
// collections. The zero value is not usable; call New.
type Engine struct {
	xzHits  *hits.Collection
	yzHits  *hits.Collection
	xyzHits *hits.Collection
}

// New creates an engine with empty projection collections.
func New() *Engine {
	return &Engine{
		xzHits:  hits.New(),
		yzHits:  hits.New(),
		xyzHits: hits.New(),
	}
}

// project empties dst and refills it with the hits of c whose kind
// matches target exactly, preserving source order.
func project(dst, src *hits.Collection, target hits.CoordKind) *hits.Collection {
	dst.RemoveAll()
	for _, h := range src.Hits() {
		if h.Kind == target {
			dst.Add(h)
		}
	}
	return dst
}

// Projection returns a new collection holding the hits of c whose kind
// matches target exactly. An empty source yields an empty result.
func (e *Engine) Projection(c *hits.Collection, target hits.CoordKind) *hits.Collection {
	return project(hits.New(), c, target)
}

// XZHits recomputes and returns the engine-owned collection of hits
// with undetermined y and measured x and z. The returned collection is
// overwritten by the next XZHits call.
func (e *Engine) XZHits(c *hits.Collection) *hits.Collection {
	return project(e.xzHits, c, hits.KindXZ)
}

// YZHits recomputes and returns the engine-owned collection of hits
// with undetermined x and measured y and z.
func (e *Engine) YZHits(c *hits.Collection) *hits.Collection {
	return project(e.yzHits, c, hits.KindYZ)
}

// XYZHits recomputes and returns the engine-owned collection of hits
// with all three coordinates measured.
func (e *Engine) XYZHits(c *hits.Collection) *hits.Collection {
	return project(e.xyzHits, c, hits.KindXYZ)
}

// Sort rearranges c in place. A nil less applies the default ascending-z
// order; a caller-supplied comparator fully replaces it.
func (e *Engine) Sort(c *hits.Collection, less func(a, b hits.Hit) bool) {
	c.Sort(less)
}

// Shuffle rearranges c in place with nloop random pairwise swaps drawn
// from rng. See hits.Collection.Shuffle for the distribution caveat.
func (e *Engine) Shuffle(c *hits.Collection, nloop int, rng *rand.Rand) {
	c.Shuffle(nloop, rng)
}

// TotalDepositedEnergy sums the energies of every hit, volume
// membership notwithstanding, and caches the result on the collection.
func (e *Engine) TotalDepositedEnergy(c *hits.Collection) float64 {
	return c.TotalEnergy()
}

// Boundaries scans every hit position once and returns the bounding
// box of the collection. The extent is not kept in sync with mutation;
// callers must invoke Boundaries again after changing c. For an empty
// collection the result is the inverted box, reported by IsValid.
func (e *Engine) Boundaries(c *hits.Collection) geom.AABB {
	const huge = 1e10
	box := geom.AABB{
		Min: [3]float64{huge, huge, huge},
		Max: [3]float64{-huge, -huge, -huge},
	}
	for _, h := range c.Hits() {
		for ax := 0; ax < 3; ax++ {
			if h.Position[ax] < box.Min[ax] {
				box.Min[ax] = h.Position[ax]
			}
			if h.Position[ax] > box.Max[ax] {
				box.Max[ax] = h.Position[ax]
			}
		}
	}
	return box
}

// InExtent reports whether p lies within the bounding box of c. An
// empty collection has no extent and contains nothing.
func (e *Engine) InExtent(c *hits.Collection, p mgl64.Vec3) bool {
	box := e.Boundaries(c)
	return box.IsValid() && box.ContainsPoint(p)
}

// ExtentOverlaps reports whether the bounding boxes of two collections
// overlap. False when either collection is empty.
func (e *Engine) ExtentOverlaps(a, b *hits.Collection) bool {
	boxA := e.Boundaries(a)
	boxB := e.Boundaries(b)
	if !boxA.IsValid() || !boxB.IsValid() {
		return false
	}
	return boxA.Overlaps(boxB)
}
