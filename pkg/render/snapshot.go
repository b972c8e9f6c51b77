package render

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
)

// Snapshot produces one mesh per scene element: the hit glyphs first,
// then each test volume in argument order. Volumes must be
// geom.Cylinder or geom.Prism values. The collection is only read.
func Snapshot(c *hits.Collection, glyphScale float64, volumes ...geom.Volume) ([]*Mesh, error) {
	var meshes []*Mesh

	glyphs, err := HitGlyphs(c, glyphScale)
	if err != nil {
		return nil, err
	}
	if glyphs != nil {
		meshes = append(meshes, ToMesh(glyphs, "hits"))
	}

	for i, v := range volumes {
		var (
			s    sdf.SDF3
			name string
		)
		switch vol := v.(type) {
		case geom.Cylinder:
			s, err = CylinderSolid(vol)
			name = fmt.Sprintf("cylinder-%d", i)
		case geom.Prism:
			s, err = PrismSolid(vol)
			name = fmt.Sprintf("prism-%d", i)
		default:
			return nil, fmt.Errorf("render: unsupported volume %T", v)
		}
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, ToMesh(s, name))
	}

	return meshes, nil
}
