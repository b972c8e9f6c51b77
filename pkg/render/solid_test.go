package render

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

func TestCylinderSolidSign(t *testing.T) {
	cy := geom.Cylinder{
		X0:     mgl64.Vec3{0, 0, 0},
		X1:     mgl64.Vec3{0, 0, 10},
		Radius: 1,
	}
	s, err := CylinderSolid(cy)
	if err != nil {
		t.Fatalf("CylinderSolid: %v", err)
	}

	tests := []struct {
		name   string
		p      v3.Vec
		inside bool
	}{
		{"axis midpoint", v3.Vec{X: 0, Y: 0, Z: 5}, true},
		{"near base", v3.Vec{X: 0, Y: 0, Z: 0.5}, true},
		{"radially outside", v3.Vec{X: 3, Y: 0, Z: 5}, false},
		{"below base", v3.Vec{X: 0, Y: 0, Z: -2}, false},
		{"above top", v3.Vec{X: 0, Y: 0, Z: 12}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := s.Evaluate(tt.p)
			if tt.inside && d >= 0 {
				t.Errorf("Evaluate(%v) = %v, want negative (inside)", tt.p, d)
			}
			if !tt.inside && d <= 0 {
				t.Errorf("Evaluate(%v) = %v, want positive (outside)", tt.p, d)
			}
		})
	}
}

func TestCylinderSolidTiltedAxis(t *testing.T) {
	// Axis along x; the solid must follow the segment, not world z.
	cy := geom.Cylinder{
		X0:     mgl64.Vec3{0, 0, 0},
		X1:     mgl64.Vec3{10, 0, 0},
		Radius: 2,
	}
	s, err := CylinderSolid(cy)
	if err != nil {
		t.Fatalf("CylinderSolid: %v", err)
	}
	if d := s.Evaluate(v3.Vec{X: 5, Y: 0, Z: 0}); d >= 0 {
		t.Errorf("segment midpoint outside the solid: %v", d)
	}
	if d := s.Evaluate(v3.Vec{X: 5, Y: 0, Z: 4}); d <= 0 {
		t.Errorf("point beyond the radius inside the solid: %v", d)
	}
}

func TestPrismSolidSign(t *testing.T) {
	pr := geom.Prism{
		X0:    mgl64.Vec3{0, 0, 0},
		X1:    mgl64.Vec3{0, 0, 10},
		SizeX: 4,
		SizeY: 2,
	}
	s, err := PrismSolid(pr)
	if err != nil {
		t.Fatalf("PrismSolid: %v", err)
	}
	if d := s.Evaluate(v3.Vec{X: 0, Y: 0, Z: 5}); d >= 0 {
		t.Errorf("center outside the solid: %v", d)
	}
	if d := s.Evaluate(v3.Vec{X: 1.5, Y: 0, Z: 5}); d >= 0 {
		t.Errorf("point within the wide face outside the solid: %v", d)
	}
	if d := s.Evaluate(v3.Vec{X: 0, Y: 2, Z: 5}); d <= 0 {
		t.Errorf("point past the narrow face inside the solid: %v", d)
	}
}

func TestPrismSolidRotationMatchesContainment(t *testing.T) {
	// Same prism as the containment rotation test: the rendered solid
	// and Contains must agree on which points are in.
	pr := geom.Prism{
		X0:    mgl64.Vec3{0, 0, 0},
		X1:    mgl64.Vec3{0, 0, 10},
		SizeX: 4,
		SizeY: 1,
		Theta: math.Pi / 2,
	}
	s, err := PrismSolid(pr)
	if err != nil {
		t.Fatalf("PrismSolid: %v", err)
	}

	points := []mgl64.Vec3{
		{0, 1.5, 5},
		{1.5, 0, 5},
		{0, 0, 5},
	}
	for _, p := range points {
		in := pr.Contains(p)
		d := s.Evaluate(toV3(p))
		if in && d >= 0 {
			t.Errorf("Contains(%v) is true but SDF is %v", p, d)
		}
		if !in && d <= 0 {
			t.Errorf("Contains(%v) is false but SDF is %v", p, d)
		}
	}
}

func TestSolidDegenerateAxis(t *testing.T) {
	cy := geom.Cylinder{X0: mgl64.Vec3{1, 1, 1}, X1: mgl64.Vec3{1, 1, 1}, Radius: 1}
	if _, err := CylinderSolid(cy); err == nil {
		t.Error("CylinderSolid should fail on a zero-length axis")
	}

	pr := geom.Prism{X0: mgl64.Vec3{0, 0, 0}, X1: mgl64.Vec3{0, 0, 0}, SizeX: 1, SizeY: 1}
	if _, err := PrismSolid(pr); err == nil {
		t.Error("PrismSolid should fail on a zero-length axis")
	}
}

func TestHitGlyphs(t *testing.T) {
	c := hits.New()
	c.AddHit(0, 0, 0, 8, 0, hits.KindXYZ) // cbrt(8) = 2, radius 1 at scale 0.5
	c.AddHit(0, 0, 10, 1, 0, hits.KindXYZ)

	s, err := HitGlyphs(c, 0.5)
	if err != nil {
		t.Fatalf("HitGlyphs: %v", err)
	}
	if s == nil {
		t.Fatal("HitGlyphs returned nil for a non-empty collection")
	}

	if d := s.Evaluate(v3.Vec{X: 0, Y: 0, Z: 0}); d >= 0 {
		t.Errorf("hit position outside its glyph: %v", d)
	}
	if d := s.Evaluate(v3.Vec{X: 0, Y: 0, Z: 10}); d >= 0 {
		t.Errorf("second hit position outside its glyph: %v", d)
	}
	if d := s.Evaluate(v3.Vec{X: 0, Y: 0, Z: 5}); d <= 0 {
		t.Errorf("midpoint between glyphs inside the union: %v", d)
	}
}

func TestHitGlyphsEmptyCollection(t *testing.T) {
	s, err := HitGlyphs(hits.New(), 1)
	if err != nil {
		t.Fatalf("HitGlyphs: %v", err)
	}
	if s != nil {
		t.Error("HitGlyphs should return nil for an empty collection")
	}
}

func TestToMeshCells(t *testing.T) {
	cy := geom.Cylinder{
		X0:     mgl64.Vec3{0, 0, 0},
		X1:     mgl64.Vec3{0, 0, 2},
		Radius: 1,
	}
	s, err := CylinderSolid(cy)
	if err != nil {
		t.Fatalf("CylinderSolid: %v", err)
	}

	m := ToMeshCells(s, "cyl", 16)
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.Name != "cyl" {
		t.Errorf("Name = %q, want %q", m.Name, "cyl")
	}
	if len(m.Vertices)%9 != 0 {
		t.Errorf("vertex array length %d is not a whole number of triangles", len(m.Vertices))
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	if m.TriangleCount()*3 != m.VertexCount() {
		t.Errorf("TriangleCount %d inconsistent with VertexCount %d",
			m.TriangleCount(), m.VertexCount())
	}
	if len(m.Indices) != m.VertexCount() {
		t.Errorf("indices length %d != vertex count %d", len(m.Indices), m.VertexCount())
	}
}

func TestToMeshCellsNilSolid(t *testing.T) {
	m := ToMeshCells(nil, "empty", 16)
	if !m.IsEmpty() {
		t.Error("nil solid should produce an empty mesh")
	}
	if m.Name != "empty" {
		t.Errorf("Name = %q, want %q", m.Name, "empty")
	}
	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("empty mesh reports %d vertices, %d triangles",
			m.VertexCount(), m.TriangleCount())
	}
}
