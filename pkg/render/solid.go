package render

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 100

// toV3 converts an mgl64 vector to the sdfx vector type.
func toV3(v mgl64.Vec3) v3.Vec {
	return v3.Vec{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// axisFrame builds the transform that carries a solid modeled along +z
// with its base at the origin onto the segment x0 -> x1.
func axisFrame(x0, x1 mgl64.Vec3) (sdf.M44, error) {
	axis := x1.Sub(x0)
	length := axis.Len()
	if length == 0 {
		return sdf.M44{}, fmt.Errorf("render: degenerate axis, x0 == x1")
	}
	// Polar and azimuthal angles of the axis direction; RotateY then
	// RotateZ takes +z onto it.
	theta := math.Atan2(math.Hypot(axis.X(), axis.Y()), axis.Z())
	phi := math.Atan2(axis.Y(), axis.X())

	m := sdf.Translate3d(toV3(x0)).
		Mul(sdf.RotateZ(phi)).
		Mul(sdf.RotateY(theta))
	return m, nil
}

// CylinderSolid builds an SDF solid for a cylinder test volume,
// oriented along its X0 -> X1 axis.
func CylinderSolid(cy geom.Cylinder) (sdf.SDF3, error) {
	length := cy.Length()
	s, err := sdf.Cylinder3D(length, cy.Radius, 0)
	if err != nil {
		return nil, fmt.Errorf("render: cylinder: %w", err)
	}
	frame, err := axisFrame(cy.X0, cy.X1)
	if err != nil {
		return nil, err
	}
	// Cylinder3D centers the solid; shift the base to the local origin
	// before placing it on the axis.
	m := frame.Mul(sdf.Translate3d(v3.Vec{Z: length / 2}))
	return sdf.Transform3D(s, m), nil
}

// PrismSolid builds an SDF solid for a prism test volume. The box face
// is rotated by -Theta about the local axis, mirroring the containment
// test which rotates hit offsets by +Theta.
func PrismSolid(pr geom.Prism) (sdf.SDF3, error) {
	length := pr.Length()
	s, err := sdf.Box3D(v3.Vec{X: pr.SizeX, Y: pr.SizeY, Z: length}, 0)
	if err != nil {
		return nil, fmt.Errorf("render: prism: %w", err)
	}
	frame, err := axisFrame(pr.X0, pr.X1)
	if err != nil {
		return nil, err
	}
	m := frame.
		Mul(sdf.RotateZ(-pr.Theta)).
		Mul(sdf.Translate3d(v3.Vec{Z: length / 2}))
	return sdf.Transform3D(s, m), nil
}

// HitGlyphs builds one sphere per hit, placed at the hit position with
// a radius proportional to the cube root of its energy, so glyph
// volume tracks deposited energy. Hits with zero energy get a sphere
// of radius scale. Returns nil for an empty collection.
func HitGlyphs(c *hits.Collection, scale float64) (sdf.SDF3, error) {
	if c.Len() == 0 {
		return nil, nil
	}
	glyphs := make([]sdf.SDF3, 0, c.Len())
	for _, h := range c.Hits() {
		r := scale
		if h.Energy > 0 {
			r = scale * math.Cbrt(h.Energy)
		}
		s, err := sdf.Sphere3D(r)
		if err != nil {
			return nil, fmt.Errorf("render: hit glyph: %w", err)
		}
		glyphs = append(glyphs, sdf.Transform3D(s, sdf.Translate3d(toV3(h.Position))))
	}
	return sdf.Union3D(glyphs...), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes at
// the default resolution.
func ToMesh(s sdf.SDF3, name string) *Mesh {
	return ToMeshCells(s, name, defaultMeshCells)
}

// ToMeshCells converts a solid to a triangle mesh using marching cubes
// with an explicit cell resolution.
func ToMeshCells(s sdf.SDF3, name string, cells int) *Mesh {
	if s == nil {
		return &Mesh{Name: name}
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Name:     name,
	}
}
