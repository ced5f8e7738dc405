// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// The coordinate resolver: whitespace-separated numeric text in and out of
// flat coordinate slices. Coordinates are kept in go-geom's flat
// representation (one []float64 with a stride of 2 or 3) throughout the
// codec; tuples only materialize at the canonical geometry boundary.

func layoutForStride(stride int) geom.Layout {
	if stride == 3 {
		return geom.XYZ
	}
	return geom.XY
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, malformedf("gml: invalid coordinate scalar %q", f)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseTupleText parses posList-style text: scalars separated by arbitrary
// whitespace, grouped into tuples of dim scalars. With dim zero the stride
// is inferred: 2 when the scalar count divides by 2, otherwise 3 when it
// divides by 3. A count that fits neither is malformed.
func parseTupleText(text string, dim int) (flat []float64, stride int, err error) {
	vals, err := parseFloats(strings.Fields(text))
	if err != nil {
		return nil, 0, err
	}
	stride = dim
	if stride == 0 {
		switch {
		case len(vals) == 0 || len(vals)%2 == 0:
			stride = 2
		case len(vals)%3 == 0:
			stride = 3
		default:
			return nil, 0, malformedf("gml: %d coordinate scalars do not form 2- or 3-dimensional tuples", len(vals))
		}
	}
	if len(vals)%stride != 0 {
		return nil, 0, malformedf("gml: %d coordinate scalars do not divide into %d-dimensional tuples", len(vals), stride)
	}
	return vals, stride, nil
}

// parsePosText parses a single pos tuple. The tuple's own length decides the
// dimensionality unless dim is already fixed by an ancestor.
func parsePosText(text string, dim int) (tuple []float64, err error) {
	vals, err := parseFloats(strings.Fields(text))
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 && len(vals) != 3 {
		return nil, malformedf("gml: pos has %d scalars, want 2 or 3", len(vals))
	}
	if dim != 0 && len(vals) != dim {
		return nil, structuralf("gml: pos dimensionality %d disagrees with ancestor dimensionality %d", len(vals), dim)
	}
	return vals, nil
}

// parseCoordinatesText parses legacy coordinates text, honoring the cs
// (separator between the ordinates of one tuple), ts (separator between
// tuples) and decimal attributes. All tuples must share one dimensionality.
func parseCoordinatesText(text, cs, ts, decimal string) (flat []float64, stride int, err error) {
	if cs == "" {
		cs = ","
	}
	if ts == "" {
		ts = " "
	}
	var tuples []string
	if ts == " " {
		tuples = strings.Fields(text)
	} else {
		tuples = strings.Split(strings.TrimSpace(text), ts)
	}
	for _, tuple := range tuples {
		var fields []string
		if cs == " " {
			fields = strings.Fields(tuple)
		} else {
			fields = strings.Split(strings.TrimSpace(tuple), cs)
		}
		if decimal != "" && decimal != "." {
			for i := range fields {
				fields[i] = strings.ReplaceAll(fields[i], decimal, ".")
			}
		}
		vals, err := parseFloats(fields)
		if err != nil {
			return nil, 0, err
		}
		if len(vals) != 2 && len(vals) != 3 {
			return nil, 0, malformedf("gml: coordinates tuple %q has %d scalars, want 2 or 3", tuple, len(vals))
		}
		if stride == 0 {
			stride = len(vals)
		} else if len(vals) != stride {
			return nil, 0, structuralf("gml: coordinates tuples mix dimensionalities %d and %d", stride, len(vals))
		}
		flat = append(flat, vals...)
	}
	return flat, stride, nil
}

// swapFlat exchanges the first two scalars of every tuple in place.
func swapFlat(flat []float64, stride int) {
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = flat[i+1], flat[i]
	}
}

// swapGeomXY exchanges the X and Y axes of a geometry in place, recursing
// into collection members. Only applied to geometries the parser built
// itself, never to caller-owned values.
func swapGeomXY(t geom.T) {
	if gc, ok := t.(*geom.GeometryCollection); ok {
		for _, g := range gc.Geoms() {
			swapGeomXY(g)
		}
		return
	}
	swapFlat(t.FlatCoords(), t.Layout().Stride())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatTupleText renders flat coordinates as posList-style text: scalars
// separated by single spaces, the first two axes of each tuple exchanged
// when swap is set. The inverse of parseTupleText.
func formatTupleText(flat []float64, stride int, swap bool) string {
	var sb strings.Builder
	for i := 0; i < len(flat); i += stride {
		if i > 0 {
			sb.WriteByte(' ')
		}
		x, y := flat[i], flat[i+1]
		if swap {
			x, y = y, x
		}
		sb.WriteString(formatFloat(x))
		sb.WriteByte(' ')
		sb.WriteString(formatFloat(y))
		if stride == 3 {
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(flat[i+2]))
		}
	}
	return sb.String()
}

// ringClosed reports whether the first and last tuple of a ring are equal.
func ringClosed(flat []float64, stride int) bool {
	n := len(flat)
	if n < stride {
		return false
	}
	for i := 0; i < stride; i++ {
		if flat[i] != flat[n-stride+i] {
			return false
		}
	}
	return true
}

// determineSRS reduces the srsName declarations seen on one geometry and its
// coordinate carriers to at most one value. Conflicting declarations are a
// structural defect.
func determineSRS(srss ...string) (string, error) {
	srs := ""
	for _, s := range srss {
		if s == "" {
			continue
		}
		if srs != "" && s != srs {
			return "", structuralf("gml: conflicting srsName declarations %q and %q", srs, s)
		}
		srs = s
	}
	return srs, nil
}
