// Package hits defines the hit record and the ordered, mutable hit
// collection that the query engine operates on. A hit is a single
// energy deposit at a 3D position, tagged with the coordinates the
// readout actually measured.
package hits

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrIndexOutOfRange is returned by index-based accessors when the
// index is negative or >= Len(). Indices are never clamped.
var ErrIndexOutOfRange = errors.New("hits: index out of range")

// Hit is a single energy deposit.
type Hit struct {
	Position mgl64.Vec3 // mm
	Energy   float64    // keV
	Time     float64    // µs delay, zero when unset
	Kind     CoordKind
}

// Collection is an ordered, mutable sequence of hits. Insertion order
// is the index used by all accessors. A Collection is not safe for
// concurrent mutation; callers must serialize writers.
type Collection struct {
	hits []Hit

	// totEnergy caches the last TotalEnergy result. It is not kept in
	// sync with mutation; call TotalEnergy again after changing the
	// collection.
	totEnergy float64
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{}
}

// Add appends a hit to the collection.
func (c *Collection) Add(h Hit) {
	c.hits = append(c.hits, h)
}

// AddHit appends a hit from raw coordinates, energy in keV, time delay
// in µs, and its coordinate-validity kind.
func (c *Collection) AddHit(x, y, z, energy, t float64, kind CoordKind) {
	c.Add(Hit{Position: mgl64.Vec3{x, y, z}, Energy: energy, Time: t, Kind: kind})
}

// RemoveAll clears the collection to empty.
func (c *Collection) RemoveAll() {
	c.hits = c.hits[:0]
}

// Len returns the number of hits.
func (c *Collection) Len() int {
	return len(c.hits)
}

// At returns the hit at index i.
func (c *Collection) At(i int) (Hit, error) {
	if i < 0 || i >= len(c.hits) {
		return Hit{}, fmt.Errorf("hit %d of %d: %w", i, len(c.hits), ErrIndexOutOfRange)
	}
	return c.hits[i], nil
}

// Position returns the position of the hit at index i.
func (c *Collection) Position(i int) (mgl64.Vec3, error) {
	h, err := c.At(i)
	return h.Position, err
}

// Energy returns the energy of the hit at index i.
func (c *Collection) Energy(i int) (float64, error) {
	h, err := c.At(i)
	return h.Energy, err
}

// Time returns the time delay of the hit at index i.
func (c *Collection) Time(i int) (float64, error) {
	h, err := c.At(i)
	return h.Time, err
}

// Kind returns the coordinate-validity kind of the hit at index i.
func (c *Collection) Kind(i int) (CoordKind, error) {
	h, err := c.At(i)
	return h.Kind, err
}

// Swap exchanges the hits at indices i and j.
func (c *Collection) Swap(i, j int) error {
	if i < 0 || i >= len(c.hits) {
		return fmt.Errorf("swap %d of %d: %w", i, len(c.hits), ErrIndexOutOfRange)
	}
	if j < 0 || j >= len(c.hits) {
		return fmt.Errorf("swap %d of %d: %w", j, len(c.hits), ErrIndexOutOfRange)
	}
	c.hits[i], c.hits[j] = c.hits[j], c.hits[i]
	return nil
}

// Sort rearranges the hits in place into the total order given by less.
// A nil less sorts by ascending z coordinate.
func (c *Collection) Sort(less func(a, b Hit) bool) {
	if less == nil {
		less = func(a, b Hit) bool { return a.Position.Z() < b.Position.Z() }
	}
	sort.Slice(c.hits, func(i, j int) bool { return less(c.hits[i], c.hits[j]) })
}

// SortZ sorts the hits by ascending z coordinate.
func (c *Collection) SortZ() {
	c.Sort(nil)
}

// Shuffle performs nloop independent random pairwise swaps, each swap
// choosing two indices uniformly in [0, Len()). This approximates a
// random permutation only for nloop large relative to Len(); it is
// deliberately not a uniform shuffle, so that output for a fixed rng
// seed stays stable. A collection with fewer than two hits is left
// untouched.
func (c *Collection) Shuffle(nloop int, rng *rand.Rand) {
	n := len(c.hits)
	if n < 2 {
		return
	}
	for i := 0; i < nloop; i++ {
		a, b := rng.Intn(n), rng.Intn(n)
		c.hits[a], c.hits[b] = c.hits[b], c.hits[a]
	}
}

// Hits returns the underlying hit slice for iteration. The slice is a
// live view; callers must treat it as read-only and must not hold it
// across mutations.
func (c *Collection) Hits() []Hit {
	return c.hits
}

// TotalEnergy sums the energy of every hit and caches the result on
// the collection.
func (c *Collection) TotalEnergy() float64 {
	sum := 0.0
	for i := range c.hits {
		sum += c.hits[i].Energy
	}
	c.totEnergy = sum
	return sum
}

// CachedTotalEnergy returns the value stored by the last TotalEnergy
// call without recomputing it.
func (c *Collection) CachedTotalEnergy() float64 {
	return c.totEnergy
}
