package query

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

func TestCylinderWallDistanceOnAxis(t *testing.T) {
	e := New()
	c := trackCollection()
	cy := trackCylinder()

	// Every hit sits on the axis, so |p-x0|² equals l² and the wall
	// quantity collapses to r² = 1 for each.
	if got := e.CylinderWallDistance(c, cy); math.Abs(got-1) > eps {
		t.Errorf("CylinderWallDistance = %v, want 1", got)
	}
}

func TestCylinderWallDistanceOffAxisHit(t *testing.T) {
	e := New()
	c := hits.New()
	c.AddHit(0.5, 0, 5, 1, 0, hits.KindXYZ)

	cy := trackCylinder()

	// rel = (0.5, 0, 6), l = 6: d2 = 1 - (0.25 + 36) + 36 = 0.75.
	want := math.Sqrt(0.75)
	if got := e.CylinderWallDistance(c, cy); math.Abs(got-want) > eps {
		t.Errorf("CylinderWallDistance = %v, want %v", got, want)
	}
}

func TestCylinderWallDistanceNoHitInside(t *testing.T) {
	e := New()
	c := trackCollection()

	off := geom.Cylinder{
		X0:     mgl64.Vec3{5, 5, -1},
		X1:     mgl64.Vec3{5, 5, 11},
		Radius: 0.5,
	}
	if got := e.CylinderWallDistance(c, off); got != NoHitInside {
		t.Errorf("CylinderWallDistance = %v, want %v", got, NoHitInside)
	}
	if got := e.CylinderTopDistance(c, off); got != NoHitInside {
		t.Errorf("CylinderTopDistance = %v, want %v", got, NoHitInside)
	}
	if got := e.CylinderBottomDistance(c, off); got != NoHitInside {
		t.Errorf("CylinderBottomDistance = %v, want %v", got, NoHitInside)
	}
}

func TestCylinderFaceDistances(t *testing.T) {
	e := New()
	c := trackCollection()
	cy := trackCylinder()

	// Closest hit to the base plane (z=-1) is z=0: axial offset 1.
	if got := e.CylinderBottomDistance(c, cy); math.Abs(got-1) > eps {
		t.Errorf("CylinderBottomDistance = %v, want 1", got)
	}
	// Closest hit to the top plane (z=11) is z=10: distance 1.
	if got := e.CylinderTopDistance(c, cy); math.Abs(got-1) > eps {
		t.Errorf("CylinderTopDistance = %v, want 1", got)
	}
}

func TestPrismWallDistance(t *testing.T) {
	e := New()
	c := hits.New()
	c.AddHit(1, 1, 5, 1, 0, hits.KindXYZ)

	pr := geom.Prism{
		X0:    mgl64.Vec3{0, 0, 0},
		X1:    mgl64.Vec3{0, 0, 10},
		SizeX: 4,
		SizeY: 4,
	}

	// Local offset (1,1): min(2-1, 2-1) = 1.
	if got := e.PrismWallDistance(c, pr); math.Abs(got-1) > eps {
		t.Errorf("PrismWallDistance = %v, want 1", got)
	}
}

func TestPrismWallDistanceMinOverHits(t *testing.T) {
	e := New()
	c := hits.New()
	c.AddHit(1, 1, 2, 1, 0, hits.KindXYZ)   // min(1, 1) = 1
	c.AddHit(1.5, 0, 5, 1, 0, hits.KindXYZ) // min(0.5, 2) = 0.5
	c.AddHit(0, 0, 8, 1, 0, hits.KindXYZ)   // min(2, 2) = 2

	pr := geom.Prism{
		X0:    mgl64.Vec3{0, 0, 0},
		X1:    mgl64.Vec3{0, 0, 10},
		SizeX: 4,
		SizeY: 4,
	}
	if got := e.PrismWallDistance(c, pr); math.Abs(got-0.5) > eps {
		t.Errorf("PrismWallDistance = %v, want 0.5", got)
	}
}

func TestPrismFaceDistances(t *testing.T) {
	e := New()
	c := hits.New()
	c.AddHit(0, 0, 3, 1, 0, hits.KindXYZ)
	c.AddHit(0, 0, 6, 1, 0, hits.KindXYZ)

	pr := geom.Prism{
		X0:    mgl64.Vec3{0, 0, 0},
		X1:    mgl64.Vec3{0, 0, 10},
		SizeX: 4,
		SizeY: 4,
	}

	if got := e.PrismBottomDistance(c, pr); math.Abs(got-3) > eps {
		t.Errorf("PrismBottomDistance = %v, want 3", got)
	}
	if got := e.PrismTopDistance(c, pr); math.Abs(got-4) > eps {
		t.Errorf("PrismTopDistance = %v, want 4", got)
	}
}

func TestPrismDistancesNoHitInside(t *testing.T) {
	e := New()
	c := trackCollection()

	pr := geom.Prism{
		X0:    mgl64.Vec3{100, 100, 0},
		X1:    mgl64.Vec3{100, 100, 1},
		SizeX: 1,
		SizeY: 1,
	}
	if got := e.PrismWallDistance(c, pr); got != NoHitInside {
		t.Errorf("PrismWallDistance = %v, want %v", got, NoHitInside)
	}
	if got := e.PrismTopDistance(c, pr); got != NoHitInside {
		t.Errorf("PrismTopDistance = %v, want %v", got, NoHitInside)
	}
	if got := e.PrismBottomDistance(c, pr); got != NoHitInside {
		t.Errorf("PrismBottomDistance = %v, want %v", got, NoHitInside)
	}
}
