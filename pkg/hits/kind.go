package hits

import "fmt"

// CoordKind is a bitmask recording which coordinates of a hit were
// physically measured by the readout. Unmeasured coordinates carry
// whatever value the producer stored (usually zero) and must be
// ignored by axis-specific aggregation.
type CoordKind uint8

const (
	KindX CoordKind = 1 << iota // x coordinate measured
	KindY                       // y coordinate measured
	KindZ                       // z coordinate measured
)

// Composite kinds for the projection planes a readout can resolve.
const (
	KindXY  = KindX | KindY
	KindXZ  = KindX | KindZ
	KindYZ  = KindY | KindZ
	KindXYZ = KindX | KindY | KindZ
)

// HasX reports whether the x coordinate is measured.
func (k CoordKind) HasX() bool { return k&KindX != 0 }

// HasY reports whether the y coordinate is measured.
func (k CoordKind) HasY() bool { return k&KindY != 0 }

// HasZ reports whether the z coordinate is measured.
func (k CoordKind) HasZ() bool { return k&KindZ != 0 }

func (k CoordKind) String() string {
	switch k {
	case KindX:
		return "X"
	case KindY:
		return "Y"
	case KindZ:
		return "Z"
	case KindXY:
		return "XY"
	case KindXZ:
		return "XZ"
	case KindYZ:
		return "YZ"
	case KindXYZ:
		return "XYZ"
	default:
		return fmt.Sprintf("CoordKind(%d)", uint8(k))
	}
}
