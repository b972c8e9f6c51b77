package engine

import (
	"fmt"
	"math/rand"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tpcsoft/hitgeom/pkg/geom"
	"github.com/tpcsoft/hitgeom/pkg/hits"
	"github.com/tpcsoft/hitgeom/pkg/query"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms analysis script source before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals,
//     which would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: count-inside -> count_inside
//     zygomys does not allow hyphens in identifiers (it interprets
//     them as the subtraction operator).
//
// Both transformations respect string literal boundaries and line
// comments, and ; line comments are rewritten to the // form zygomys
// expects.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not
		// a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps an mgl64.Vec3 position.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpVolume wraps a test volume, either a cylinder or a prism, so the
// shape-specific distance builtins can dispatch on it.
type sexpVolume struct {
	cyl   *geom.Cylinder
	prism *geom.Prism
}

func (v *sexpVolume) volume() geom.Volume {
	if v.cyl != nil {
		return *v.cyl
	}
	return *v.prism
}

func (v *sexpVolume) SexpString(ps *zygo.PrintState) string {
	if v.cyl != nil {
		return fmt.Sprintf("(cylinder :radius %.3f)", v.cyl.Radius)
	}
	return fmt.Sprintf("(prism %.3fx%.3f)", v.prism.SizeX, v.prism.SizeY)
}
func (v *sexpVolume) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword
// argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_xz) and plain strings ("xz").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toKind converts a keyword or string to a hits.CoordKind.
func toKind(s zygo.Sexp) (hits.CoordKind, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected kind keyword (:x ... :xyz): %w", err)
	}
	switch name {
	case "x":
		return hits.KindX, nil
	case "y":
		return hits.KindY, nil
	case "z":
		return hits.KindZ, nil
	case "xy":
		return hits.KindXY, nil
	case "xz":
		return hits.KindXZ, nil
	case "yz":
		return hits.KindYZ, nil
	case "xyz":
		return hits.KindXYZ, nil
	}
	return 0, fmt.Errorf("invalid kind %q, expected x, y, z, xy, xz, yz, or xyz", name)
}

// toVec3 extracts an mgl64.Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVolume extracts a *sexpVolume.
func toVolume(s zygo.Sexp) (*sexpVolume, error) {
	if v, ok := s.(*sexpVolume); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected volume, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the analysis DSL builtins into a zygomys
// environment. The builtins operate on the provided Result, populating
// its collection and recorded values during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals and kebab-case names match the registered ones.
func registerBuiltins(env *zygo.Zlisp, res *Result, q *query.Engine) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mgl64.Vec3
		for i := 0; i < 3; i++ {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// (vec3-x v), (vec3-y v), (vec3-z v) component accessors.
	for i, fname := range []string{"vec3_x", "vec3_y", "vec3_z"} {
		axis := i
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a vec3 argument", name)
			}
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpFloat{Val: v[axis]}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (hit x y z energy :time 1.5 :kind :xz)
	// Appends a hit; :kind defaults to :xyz. Returns the new hit count.
	// -----------------------------------------------------------------------
	env.AddFunction("hit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("hit requires x y z energy, got %d arguments", len(pa.positional))
		}
		var coords [4]float64
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hit: argument %d: %w", i, err)
			}
			coords[i] = f
		}
		t := 0.0
		if v, ok := pa.kw["time"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hit: time: %w", err)
			}
			t = f
		}
		kind := hits.KindXYZ
		if v, ok := pa.kw["kind"]; ok {
			k, err := toKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hit: kind: %w", err)
			}
			kind = k
		}
		res.Hits.AddHit(coords[0], coords[1], coords[2], coords[3], t, kind)
		return &zygo.SexpInt{Val: int64(res.Hits.Len())}, nil
	})

	// -----------------------------------------------------------------------
	// (remove-all) / (count)
	// -----------------------------------------------------------------------
	env.AddFunction("remove_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res.Hits.RemoveAll()
		return zygo.SexpNull, nil
	})

	env.AddFunction("count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(res.Hits.Len())}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :from (vec3 0 0 -1) :to (vec3 0 0 11) :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cy := &geom.Cylinder{}

		if v, ok := pa.kw["from"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: from: %w", err)
			}
			cy.X0 = p
		}
		if v, ok := pa.kw["to"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: to: %w", err)
			}
			cy.X1 = p
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
			}
			cy.Radius = f
		}
		return &sexpVolume{cyl: cy}, nil
	})

	// -----------------------------------------------------------------------
	// (prism :from (vec3 0 0 0) :to (vec3 0 0 10) :size-x 4 :size-y 4 :theta 0)
	// -----------------------------------------------------------------------
	env.AddFunction("prism", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pr := &geom.Prism{}

		if v, ok := pa.kw["from"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: from: %w", err)
			}
			pr.X0 = p
		}
		if v, ok := pa.kw["to"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: to: %w", err)
			}
			pr.X1 = p
		}
		if v, ok := pa.kw["size-x"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: size-x: %w", err)
			}
			pr.SizeX = f
		}
		if v, ok := pa.kw["size-y"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: size-y: %w", err)
			}
			pr.SizeY = f
		}
		if v, ok := pa.kw["theta"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: theta: %w", err)
			}
			pr.Theta = f
		}
		return &sexpVolume{prism: pr}, nil
	})

	// -----------------------------------------------------------------------
	// Containment aggregates over a volume
	// -----------------------------------------------------------------------
	env.AddFunction("count_inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpInt{Val: int64(q.CountInside(res.Hits, vol.volume()))}, nil
	})

	env.AddFunction("any_inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: q.AnyInside(res.Hits, vol.volume())}, nil
	})

	env.AddFunction("all_inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: q.AllInside(res.Hits, vol.volume())}, nil
	})

	env.AddFunction("energy_inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: q.EnergyInside(res.Hits, vol.volume())}, nil
	})

	env.AddFunction("mean_inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		mean, err := q.MeanPositionInside(res.Hits, vol.volume())
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mean-inside: %w", err)
		}
		return &sexpVec3{vec: mean}, nil
	})

	// -----------------------------------------------------------------------
	// Boundary distances; -1 when no hit is inside.
	// -----------------------------------------------------------------------
	env.AddFunction("wall_distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if vol.cyl != nil {
			return &zygo.SexpFloat{Val: q.CylinderWallDistance(res.Hits, *vol.cyl)}, nil
		}
		return &zygo.SexpFloat{Val: q.PrismWallDistance(res.Hits, *vol.prism)}, nil
	})

	env.AddFunction("top_distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if vol.cyl != nil {
			return &zygo.SexpFloat{Val: q.CylinderTopDistance(res.Hits, *vol.cyl)}, nil
		}
		return &zygo.SexpFloat{Val: q.PrismTopDistance(res.Hits, *vol.prism)}, nil
	})

	env.AddFunction("bottom_distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vol, err := volumeArg(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if vol.cyl != nil {
			return &zygo.SexpFloat{Val: q.CylinderBottomDistance(res.Hits, *vol.cyl)}, nil
		}
		return &zygo.SexpFloat{Val: q.PrismBottomDistance(res.Hits, *vol.prism)}, nil
	})

	// -----------------------------------------------------------------------
	// Collection-wide aggregates and mutation
	// -----------------------------------------------------------------------
	env.AddFunction("total_energy", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: q.TotalDepositedEnergy(res.Hits)}, nil
	})

	// (bounds) -> (minx maxx miny maxy minz maxz)
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		box := q.Boundaries(res.Hits)
		vals := []float64{
			box.Min.X(), box.Max.X(),
			box.Min.Y(), box.Max.Y(),
			box.Min.Z(), box.Max.Z(),
		}
		elems := make([]zygo.Sexp, len(vals))
		for i, f := range vals {
			elems[i] = &zygo.SexpFloat{Val: f}
		}
		return zygo.MakeList(elems), nil
	})

	env.AddFunction("sort_z", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		res.Hits.SortZ()
		return zygo.SexpNull, nil
	})

	// (shuffle 100 :seed 7) — pairwise-swap shuffle with a seeded rng so
	// script runs stay reproducible.
	env.AddFunction("shuffle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("shuffle requires an iteration count")
		}
		nloop, err := toInt(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shuffle: iterations: %w", err)
		}
		seed := int64(1)
		if v, ok := pa.kw["seed"]; ok {
			s, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shuffle: seed: %w", err)
			}
			seed = int64(s)
		}
		q.Shuffle(res.Hits, nloop, rand.New(rand.NewSource(seed)))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (record "name" value) — stash a numeric or boolean result on the
	// evaluation Result for the host program.
	// -----------------------------------------------------------------------
	env.AddFunction("record", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("record requires a name and a value")
		}
		key, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("record: name: %w", err)
		}
		switch v := args[1].(type) {
		case *zygo.SexpBool:
			if v.Val {
				res.Values[key] = 1
			} else {
				res.Values[key] = 0
			}
		default:
			f, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("record: value: %w", err)
			}
			res.Values[key] = f
		}
		return args[1], nil
	})
}

// volumeArg extracts the single volume argument the query builtins take.
func volumeArg(name string, args []zygo.Sexp) (*sexpVolume, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s requires a volume argument", strings.ReplaceAll(name, "_", "-"))
	}
	vol, err := toVolume(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ReplaceAll(name, "_", "-"), err)
	}
	return vol, nil
}
