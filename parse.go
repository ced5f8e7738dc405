// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"

	"github.com/spatialkit/gml/axisorder"
)

// parser is the recursive-descent decoder for the GML dialects. One parser
// handles one dialect; geometry members of a MultiGeometry re-resolve their
// dialect from their own namespace.
type parser struct {
	d *dialect
	// hint is the caller's dialect override; members of a MultiGeometry
	// resolve against it before falling back to their namespace.
	hint       Dialect
	defaultSRS string
}

// parseTop parses a geometry element and applies the srsName in effect:
// latitude-first reference systems get their axes swapped back to x/y, and
// the resolved SRID is stored on the result. Members of a geometry
// collection have already been normalized individually, so collections are
// not swapped again.
func (p *parser) parseTop(el *etree.Element, dim int) (geom.T, error) {
	t, srs, err := p.parseGeometry(el, dim)
	if err != nil {
		return nil, err
	}
	if srs == "" {
		srs = p.defaultSRS
	}
	if srs == "" {
		return t, nil
	}
	srid, latFirst, err := axisorder.Resolve(srs)
	if err != nil {
		return nil, errors.Mark(err, ErrStructuralMismatch)
	}
	if latFirst {
		if _, ok := t.(*geom.GeometryCollection); !ok {
			swapGeomXY(t)
		}
	}
	setSRID(t, srid)
	return t, nil
}

// parseGeometry dispatches on the element's local name through the
// dialect's kind bindings. It returns the geometry together with the
// srsName declared on the element or its coordinate carriers; axis order is
// not applied at this level.
func (p *parser) parseGeometry(el *etree.Element, dim int) (geom.T, string, error) {
	kind, ok := p.d.kinds[el.Tag]
	if !ok {
		return nil, "", unknownElementf("gml: element %q is not a %s geometry", el.Tag, p.d.id)
	}
	switch kind {
	case kindPoint:
		return p.parsePoint(el, dim)
	case kindLineString, kindLinearRing:
		return p.parseLineString(el, dim, kind == kindLinearRing)
	case kindCurve:
		flat, stride, srs, err := p.parseCurveFlat(el, dim)
		if err != nil {
			return nil, "", err
		}
		return geom.NewLineStringFlat(layoutForStride(stride), flat), srs, nil
	case kindCompositeCurve:
		flat, stride, srs, err := p.parseCompositeCurveFlat(el, dim)
		if err != nil {
			return nil, "", err
		}
		return geom.NewLineStringFlat(layoutForStride(stride), flat), srs, nil
	case kindPolygon:
		pd, srs, err := p.parsePolygonData(el, dim)
		if err != nil {
			return nil, "", err
		}
		return geom.NewPolygonFlat(layoutForStride(pd.stride), pd.flat, pd.ends), srs, nil
	case kindSurface:
		polys, srs, err := p.parseSurfacePolys(el, dim)
		if err != nil {
			return nil, "", err
		}
		return polysToGeom(polys), srs, nil
	case kindCompositeSurface:
		polys, srs, err := p.parseCompositeSurfacePolys(el, dim)
		if err != nil {
			return nil, "", err
		}
		return polysToGeom(polys), srs, nil
	case kindMultiPoint:
		return p.parseMultiPoint(el, dim)
	case kindMultiCurve:
		return p.parseMultiLine(el, dim, "curveMember", "curveMembers")
	case kindMultiLineString:
		return p.parseMultiLine(el, dim, "lineStringMember", "lineStringMembers")
	case kindMultiSurface:
		return p.parseMultiPolygon(el, dim, "surfaceMember", "surfaceMembers")
	case kindMultiPolygon:
		return p.parseMultiPolygon(el, dim, "polygonMember", "polygonMembers")
	case kindMultiGeometry:
		return p.parseMultiGeometry(el, dim)
	case kindEnvelope, kindBox:
		return p.parseEnvelope(el, dim)
	case kindSimpleTriangle:
		return p.parseSimplePolygonal(el, dim, 3)
	case kindSimpleRectangle:
		return p.parseSimplePolygonal(el, dim, 4)
	case kindSimplePolygon:
		return p.parseSimplePolygonal(el, dim, 0)
	case kindSimpleMultiPoint:
		return p.parseSimpleMultiPoint(el, dim)
	default:
		return nil, "", unknownElementf("gml: element %q is not a %s geometry", el.Tag, p.d.id)
	}
}

// coordSource extracts the coordinate content of an element from whichever
// carrier the dialect allows: a posList child, pos children, a legacy
// coordinates child, or legacy coord children (pre-3.2 only). ok is false
// when the element carries no coordinates at all.
func (p *parser) coordSource(el *etree.Element, dim int) (flat []float64, stride int, srs string, ok bool, err error) {
	if posLists := childrenNamed(el, "posList"); len(posLists) > 0 {
		if len(posLists) > 1 {
			return nil, 0, "", false, structuralf("gml: too many posList children in %s", el.Tag)
		}
		pl := posLists[0]
		d, err := resolveDimension(pl, el, dim)
		if err != nil {
			return nil, 0, "", false, err
		}
		flat, stride, err = parseTupleText(pl.Text(), d)
		if err != nil {
			return nil, 0, "", false, err
		}
		return flat, stride, pl.SelectAttrValue("srsName", ""), true, nil
	}

	if poss := childrenNamed(el, "pos"); len(poss) > 0 {
		effDim := dim
		var srss []string
		for _, pos := range poss {
			tuple, err := parsePosText(pos.Text(), effDim)
			if err != nil {
				return nil, 0, "", false, err
			}
			effDim = len(tuple)
			flat = append(flat, tuple...)
			srss = append(srss, pos.SelectAttrValue("srsName", ""))
		}
		srs, err = determineSRS(srss...)
		if err != nil {
			return nil, 0, "", false, err
		}
		return flat, effDim, srs, true, nil
	}

	if coords := childrenNamed(el, "coordinates"); len(coords) > 0 {
		if len(coords) > 1 {
			return nil, 0, "", false, structuralf("gml: too many coordinates children in %s", el.Tag)
		}
		c := coords[0]
		flat, stride, err = parseCoordinatesText(
			c.Text(),
			c.SelectAttrValue("cs", ","),
			c.SelectAttrValue("ts", " "),
			c.SelectAttrValue("decimal", "."),
		)
		if err != nil {
			return nil, 0, "", false, err
		}
		if dim != 0 && stride != 0 && stride != dim {
			return nil, 0, "", false, structuralf("gml: coordinates dimensionality %d disagrees with ancestor dimensionality %d", stride, dim)
		}
		if stride == 0 {
			// Empty coordinates text marks an empty geometry.
			stride = dimOr2(dim)
		}
		return flat, stride, "", true, nil
	}

	if p.d.legacy {
		if coordEls := childrenNamed(el, "coord"); len(coordEls) > 0 {
			effDim := dim
			for _, c := range coordEls {
				tuple, err := parseCoordElement(c)
				if err != nil {
					return nil, 0, "", false, err
				}
				if effDim != 0 && len(tuple) != effDim {
					return nil, 0, "", false, structuralf("gml: coord dimensionality %d disagrees with ancestor dimensionality %d", len(tuple), effDim)
				}
				effDim = len(tuple)
				flat = append(flat, tuple...)
			}
			return flat, effDim, "", true, nil
		}
	}

	return nil, 0, "", false, nil
}

// resolveDimension decides the tuple size for posList content: an explicit
// srsDimension attribute (on the posList or the geometry element) wins over
// the dimensionality inherited from the ancestor.
func resolveDimension(posList, el *etree.Element, inherited int) (int, error) {
	v := posList.SelectAttrValue("srsDimension", "")
	if v == "" {
		v = el.SelectAttrValue("srsDimension", "")
	}
	if v == "" {
		return inherited, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || (n != 2 && n != 3) {
		return 0, malformedf("gml: invalid srsDimension %q", v)
	}
	if inherited != 0 && n != inherited {
		return 0, structuralf("gml: srsDimension %d disagrees with ancestor dimensionality %d", n, inherited)
	}
	return n, nil
}

// parseCoordElement parses a legacy coord element with X/Y and optional Z
// children.
func parseCoordElement(el *etree.Element) ([]float64, error) {
	x := childNamed(el, "X")
	y := childNamed(el, "Y")
	if x == nil || y == nil {
		return nil, structuralf("gml: coord element requires X and Y children")
	}
	tuple, err := parseFloats([]string{x.Text(), y.Text()})
	if err != nil {
		return nil, err
	}
	if z := childNamed(el, "Z"); z != nil {
		zv, err := parseFloats([]string{z.Text()})
		if err != nil {
			return nil, err
		}
		tuple = append(tuple, zv[0])
	}
	return tuple, nil
}

func (p *parser) parsePoint(el *etree.Element, dim int) (geom.T, string, error) {
	flat, stride, srs, ok, err := p.coordSource(el, dim)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", structuralf("gml: %s has neither pos nor coordinates", el.Tag)
	}
	if len(flat) != stride {
		return nil, "", structuralf("gml: %s must carry exactly one coordinate tuple, got %d", el.Tag, len(flat)/stride)
	}
	srs, err = determineSRS(el.SelectAttrValue("srsName", ""), srs)
	if err != nil {
		return nil, "", err
	}
	return geom.NewPointFlat(layoutForStride(stride), flat), srs, nil
}

// lineCoords parses the coordinate run of a LineString or LinearRing
// element.
func (p *parser) lineCoords(el *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	flat, stride, srs, ok, err := p.coordSource(el, dim)
	if err != nil {
		return nil, 0, "", err
	}
	if !ok {
		return nil, 0, "", structuralf("gml: %s has no posList, pos or coordinates", el.Tag)
	}
	srs, err = determineSRS(el.SelectAttrValue("srsName", ""), srs)
	if err != nil {
		return nil, 0, "", err
	}
	return flat, stride, srs, nil
}

func (p *parser) parseLineString(el *etree.Element, dim int, ring bool) (geom.T, string, error) {
	flat, stride, srs, err := p.lineCoords(el, dim)
	if err != nil {
		return nil, "", err
	}
	if ring {
		if err := validateRing(flat, stride, el.Tag); err != nil {
			return nil, "", err
		}
	} else if n := len(flat) / stride; n == 1 {
		return nil, "", structuralf("gml: %s needs at least 2 coordinate tuples", el.Tag)
	}
	return geom.NewLineStringFlat(layoutForStride(stride), flat), srs, nil
}

// validateRing enforces the structural invariants of a ring: at least four
// tuples and an exact first==last closure. Unclosed rings are rejected, not
// repaired.
func validateRing(flat []float64, stride int, what string) error {
	n := len(flat) / stride
	if n < 4 || !ringClosed(flat, stride) {
		return structuralf("gml: %s with %d points is not a closed ring", what, n)
	}
	return nil
}

// polyData is the flat form of one polygon: ring coordinates plus the end
// offset of each ring, exterior first.
type polyData struct {
	flat   []float64
	ends   []int
	stride int
}

func (p *parser) parsePolygonData(el *etree.Element, dim int) (polyData, string, error) {
	extNames := []string{"exterior"}
	intNames := []string{"interior"}
	if p.d.legacy {
		extNames = append(extNames, "outerBoundaryIs")
		intNames = append(intNames, "innerBoundaryIs")
	}

	exteriors := childrenNamed(el, extNames...)
	if len(exteriors) == 0 {
		return polyData{}, "", structuralf("gml: %s has no exterior ring", el.Tag)
	}
	if len(exteriors) > 1 {
		return polyData{}, "", structuralf("gml: %s has %d exterior rings", el.Tag, len(exteriors))
	}
	flat, stride, extSRS, err := p.boundaryRing(exteriors[0], dim)
	if err != nil {
		return polyData{}, "", err
	}
	pd := polyData{flat: flat, ends: []int{len(flat)}, stride: stride}

	srss := []string{el.SelectAttrValue("srsName", ""), extSRS}
	for _, interior := range childrenNamed(el, intNames...) {
		ringFlat, ringStride, ringSRS, err := p.boundaryRing(interior, stride)
		if err != nil {
			return polyData{}, "", err
		}
		if ringStride != stride {
			return polyData{}, "", structuralf("gml: interior ring dimensionality %d disagrees with exterior dimensionality %d", ringStride, stride)
		}
		pd.flat = append(pd.flat, ringFlat...)
		pd.ends = append(pd.ends, len(pd.flat))
		srss = append(srss, ringSRS)
	}

	srs, err := determineSRS(srss...)
	if err != nil {
		return polyData{}, "", err
	}
	return pd, srs, nil
}

// boundaryRing parses the content of an exterior/interior boundary element:
// a LinearRing, or (where the dialect supports curves) a Ring of curve
// members flattened into one closed run.
func (p *parser) boundaryRing(boundary *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	children := boundary.ChildElements()
	if len(children) != 1 {
		return nil, 0, "", structuralf("gml: %s must contain exactly one ring element", boundary.Tag)
	}
	ring := children[0]
	switch ring.Tag {
	case "LinearRing":
		flat, stride, srs, err = p.lineCoords(ring, dim)
	case "Ring":
		if !p.d.curves {
			return nil, 0, "", unknownElementf("gml: element %q is not a %s geometry", ring.Tag, p.d.id)
		}
		flat, stride, srs, err = p.parseRingFlat(ring, dim)
	default:
		return nil, 0, "", structuralf("gml: %s contains %q, want LinearRing", boundary.Tag, ring.Tag)
	}
	if err != nil {
		return nil, 0, "", err
	}
	if err := validateRing(flat, stride, ring.Tag); err != nil {
		return nil, 0, "", err
	}
	return flat, stride, srs, nil
}

// parseRingFlat flattens a Ring's curve members into a single run.
func (p *parser) parseRingFlat(el *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	members := memberChildren(el, "curveMember", "curveMembers")
	if len(members) == 0 {
		return nil, 0, "", structuralf("gml: Ring has no curve members")
	}
	srss := []string{el.SelectAttrValue("srsName", "")}
	effDim := dim
	for _, m := range members {
		mFlat, mStride, mSRS, err := p.curveMemberFlat(m, effDim)
		if err != nil {
			return nil, 0, "", err
		}
		effDim = mStride
		stride = mStride
		flat = appendRun(flat, mFlat, mStride)
		srss = append(srss, mSRS)
	}
	srs, err = determineSRS(srss...)
	if err != nil {
		return nil, 0, "", err
	}
	return flat, stride, srs, nil
}

// curveMemberFlat parses one member of a curve aggregate into a coordinate
// run. Only linear kinds are acceptable members.
func (p *parser) curveMemberFlat(m *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	kind, ok := p.d.kinds[m.Tag]
	if !ok {
		return nil, 0, "", unknownElementf("gml: element %q is not a %s geometry", m.Tag, p.d.id)
	}
	switch kind {
	case kindLineString, kindLinearRing:
		return p.lineCoords(m, dim)
	case kindCurve:
		return p.parseCurveFlat(m, dim)
	case kindCompositeCurve:
		return p.parseCompositeCurveFlat(m, dim)
	default:
		return nil, 0, "", structuralf("gml: %q cannot be a curve member", m.Tag)
	}
}

// curveSegmentNames are the segment kinds accepted inside Curve/segments.
// Non-linear segments (arcs, circles) contribute their control points as
// ordinary vertices; curvature is not evaluated.
var curveSegmentNames = map[string]struct{}{
	"LineStringSegment": {},
	"GeodesicString":    {},
	"Geodesic":          {},
	"Arc":               {},
	"ArcString":         {},
	"Circle":            {},
}

func (p *parser) parseCurveFlat(el *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	segments := childNamed(el, "segments")
	if segments == nil {
		return nil, 0, "", structuralf("gml: %s has no segments", el.Tag)
	}
	srss := []string{el.SelectAttrValue("srsName", "")}
	effDim := dim
	for _, seg := range segments.ChildElements() {
		if _, ok := curveSegmentNames[seg.Tag]; !ok {
			return nil, 0, "", unknownElementf("gml: unsupported curve segment %q", seg.Tag)
		}
		segFlat, segStride, segSRS, ok, err := p.coordSource(seg, effDim)
		if err != nil {
			return nil, 0, "", err
		}
		if !ok {
			return nil, 0, "", structuralf("gml: curve segment %s has no coordinates", seg.Tag)
		}
		effDim = segStride
		stride = segStride
		flat = appendRun(flat, segFlat, segStride)
		srss = append(srss, segSRS)
	}
	srs, err = determineSRS(srss...)
	if err != nil {
		return nil, 0, "", err
	}
	return flat, stride, srs, nil
}

func (p *parser) parseCompositeCurveFlat(el *etree.Element, dim int) (flat []float64, stride int, srs string, err error) {
	members := memberChildren(el, "curveMember", "curveMembers")
	if len(members) == 0 {
		return nil, 0, "", structuralf("gml: %s has no curve members", el.Tag)
	}
	srss := []string{el.SelectAttrValue("srsName", "")}
	effDim := dim
	for _, m := range members {
		mFlat, mStride, mSRS, err := p.curveMemberFlat(m, effDim)
		if err != nil {
			return nil, 0, "", err
		}
		effDim = mStride
		stride = mStride
		flat = appendRun(flat, mFlat, mStride)
		srss = append(srss, mSRS)
	}
	srs, err = determineSRS(srss...)
	if err != nil {
		return nil, 0, "", err
	}
	return flat, stride, srs, nil
}

// appendRun concatenates a member's coordinate run onto dst, dropping the
// member's first vertex when it repeats the previously appended vertex.
// Boundary continuity between members is otherwise assumed, not verified.
func appendRun(dst, src []float64, stride int) []float64 {
	if len(dst) >= stride && len(src) >= stride {
		same := true
		for i := 0; i < stride; i++ {
			if dst[len(dst)-stride+i] != src[i] {
				same = false
				break
			}
		}
		if same {
			src = src[stride:]
		}
	}
	return append(dst, src...)
}

// surfacePatchNames are the patch kinds accepted inside Surface/patches.
var surfacePatchNames = map[string]struct{}{
	"PolygonPatch": {},
	"Triangle":     {},
	"Rectangle":    {},
}

func (p *parser) parseSurfacePolys(el *etree.Element, dim int) ([]polyData, string, error) {
	patches := childNamed(el, "patches")
	if patches == nil {
		return nil, "", structuralf("gml: %s has no patches", el.Tag)
	}
	srss := []string{el.SelectAttrValue("srsName", "")}
	var polys []polyData
	effDim := dim
	for _, patch := range patches.ChildElements() {
		if _, ok := surfacePatchNames[patch.Tag]; !ok {
			return nil, "", unknownElementf("gml: unsupported surface patch %q", patch.Tag)
		}
		pd, pdSRS, err := p.parsePolygonData(patch, effDim)
		if err != nil {
			return nil, "", err
		}
		effDim = pd.stride
		polys = append(polys, pd)
		srss = append(srss, pdSRS)
	}
	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	return polys, srs, nil
}

func (p *parser) parseCompositeSurfacePolys(el *etree.Element, dim int) ([]polyData, string, error) {
	members := memberChildren(el, "surfaceMember", "surfaceMembers")
	if len(members) == 0 {
		return nil, "", structuralf("gml: %s has no surface members", el.Tag)
	}
	srss := []string{el.SelectAttrValue("srsName", "")}
	var polys []polyData
	effDim := dim
	for _, m := range members {
		mPolys, mSRS, err := p.surfaceMemberPolys(m, effDim)
		if err != nil {
			return nil, "", err
		}
		if len(mPolys) > 0 {
			effDim = mPolys[0].stride
		}
		polys = append(polys, mPolys...)
		srss = append(srss, mSRS)
	}
	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	return polys, srs, nil
}

// surfaceMemberPolys parses one member of a surface aggregate into its
// polygons.
func (p *parser) surfaceMemberPolys(m *etree.Element, dim int) ([]polyData, string, error) {
	kind, ok := p.d.kinds[m.Tag]
	if !ok {
		return nil, "", unknownElementf("gml: element %q is not a %s geometry", m.Tag, p.d.id)
	}
	switch kind {
	case kindPolygon:
		pd, srs, err := p.parsePolygonData(m, dim)
		if err != nil {
			return nil, "", err
		}
		return []polyData{pd}, srs, nil
	case kindSurface:
		return p.parseSurfacePolys(m, dim)
	case kindCompositeSurface:
		return p.parseCompositeSurfacePolys(m, dim)
	default:
		return nil, "", structuralf("gml: %q cannot be a surface member", m.Tag)
	}
}

// polysToGeom resolves a flattened patch/member set to a canonical variant:
// a single polygon stays a Polygon, several become a MultiPolygon.
func polysToGeom(polys []polyData) geom.T {
	if len(polys) == 1 {
		return geom.NewPolygonFlat(layoutForStride(polys[0].stride), polys[0].flat, polys[0].ends)
	}
	stride := 2
	var flat []float64
	endss := make([][]int, 0, len(polys))
	for _, pd := range polys {
		stride = pd.stride
		base := len(flat)
		ends := make([]int, len(pd.ends))
		for i, e := range pd.ends {
			ends[i] = base + e
		}
		flat = append(flat, pd.flat...)
		endss = append(endss, ends)
	}
	return geom.NewMultiPolygonFlat(layoutForStride(stride), flat, endss)
}

func (p *parser) parseMultiPoint(el *etree.Element, dim int) (geom.T, string, error) {
	members := memberChildren(el, "pointMember", "pointMembers")
	srss := []string{el.SelectAttrValue("srsName", "")}
	var flat []float64
	stride := 0
	effDim := dim
	for _, m := range members {
		kind, ok := p.d.kinds[m.Tag]
		if !ok {
			return nil, "", unknownElementf("gml: element %q is not a %s geometry", m.Tag, p.d.id)
		}
		if kind != kindPoint {
			return nil, "", structuralf("gml: %q cannot be a point member", m.Tag)
		}
		pt, ptSRS, err := p.parsePoint(m, effDim)
		if err != nil {
			return nil, "", err
		}
		point := pt.(*geom.Point)
		effDim = point.Layout().Stride()
		stride = effDim
		flat = append(flat, point.FlatCoords()...)
		srss = append(srss, ptSRS)
	}
	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	if stride == 0 {
		stride = dimOr2(dim)
	}
	return geom.NewMultiPointFlat(layoutForStride(stride), flat), srs, nil
}

func (p *parser) parseMultiLine(el *etree.Element, dim int, singular, plural string) (geom.T, string, error) {
	members := memberChildren(el, singular, plural)
	srss := []string{el.SelectAttrValue("srsName", "")}
	var flat []float64
	var ends []int
	stride := 0
	effDim := dim
	for _, m := range members {
		mFlat, mStride, mSRS, err := p.curveMemberFlat(m, effDim)
		if err != nil {
			return nil, "", err
		}
		effDim = mStride
		stride = mStride
		flat = append(flat, mFlat...)
		ends = append(ends, len(flat))
		srss = append(srss, mSRS)
	}
	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	if stride == 0 {
		stride = dimOr2(dim)
	}
	return geom.NewMultiLineStringFlat(layoutForStride(stride), flat, ends), srs, nil
}

func (p *parser) parseMultiPolygon(el *etree.Element, dim int, singular, plural string) (geom.T, string, error) {
	members := memberChildren(el, singular, plural)
	srss := []string{el.SelectAttrValue("srsName", "")}
	var flat []float64
	var endss [][]int
	stride := 0
	effDim := dim
	for _, m := range members {
		mPolys, mSRS, err := p.surfaceMemberPolys(m, effDim)
		if err != nil {
			return nil, "", err
		}
		for _, pd := range mPolys {
			effDim = pd.stride
			stride = pd.stride
			base := len(flat)
			ends := make([]int, len(pd.ends))
			for i, e := range pd.ends {
				ends[i] = base + e
			}
			flat = append(flat, pd.flat...)
			endss = append(endss, ends)
		}
		srss = append(srss, mSRS)
	}
	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	if stride == 0 {
		stride = dimOr2(dim)
	}
	return geom.NewMultiPolygonFlat(layoutForStride(stride), flat, endss), srs, nil
}

// parseMultiGeometry parses a geometry collection. Each member re-resolves
// its dialect from its own namespace (or the caller's override) and is
// normalized (axis order, SRID) individually; the collection's srsName,
// when present, is inherited by members without their own declaration.
func (p *parser) parseMultiGeometry(el *etree.Element, dim int) (geom.T, string, error) {
	srs := el.SelectAttrValue("srsName", "")
	memberSRS := srs
	if memberSRS == "" {
		memberSRS = p.defaultSRS
	}

	gc := geom.NewGeometryCollection()
	stride := dim
	for _, m := range memberChildren(el, "geometryMember", "geometryMembers") {
		md, err := resolveDialect(m.NamespaceURI(), p.hint)
		if err != nil {
			return nil, "", err
		}
		sub := &parser{d: md, hint: p.hint, defaultSRS: memberSRS}
		g, err := sub.parseTop(m, dim)
		if err != nil {
			return nil, "", err
		}
		if s := geomStride(g); s != 0 {
			if stride != 0 && s != stride {
				return nil, "", structuralf("gml: geometry member dimensionality %d disagrees with %d", s, stride)
			}
			stride = s
		}
		if err := gc.Push(g); err != nil {
			return nil, "", errors.Mark(err, ErrStructuralMismatch)
		}
	}
	return gc, srs, nil
}

// parseEnvelope expands an Envelope (or legacy Box) to the Polygon over its
// corner ring. Corners must be two-dimensional.
func (p *parser) parseEnvelope(el *etree.Element, dim int) (geom.T, string, error) {
	var lo, hi []float64
	srss := []string{el.SelectAttrValue("srsName", "")}

	lower := childNamed(el, "lowerCorner")
	upper := childNamed(el, "upperCorner")
	switch {
	case lower != nil && upper != nil:
		var err error
		if lo, err = parsePosText(lower.Text(), 0); err != nil {
			return nil, "", err
		}
		if hi, err = parsePosText(upper.Text(), 0); err != nil {
			return nil, "", err
		}
		srss = append(srss, lower.SelectAttrValue("srsName", ""), upper.SelectAttrValue("srsName", ""))
	default:
		flat, stride, srcSRS, ok, err := p.coordSource(el, dim)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", structuralf("gml: %s has no lowerCorner/upperCorner, pos or coordinates", el.Tag)
		}
		if len(flat) != 2*stride {
			return nil, "", structuralf("gml: %s must carry exactly two corners, got %d tuples", el.Tag, len(flat)/stride)
		}
		lo, hi = flat[:stride], flat[stride:]
		srss = append(srss, srcSRS)
	}

	if len(lo) != 2 || len(hi) != 2 {
		return nil, "", structuralf("gml: %s corners must be two-dimensional", el.Tag)
	}
	lx, ly := lo[0], lo[1]
	hx, hy := hi[0], hi[1]
	ring := []float64{lx, ly, lx, hy, hx, hy, hx, ly, lx, ly}

	srs, err := determineSRS(srss...)
	if err != nil {
		return nil, "", err
	}
	return geom.NewPolygonFlat(geom.XY, ring, []int{len(ring)}), srs, nil
}

// parseSimplePolygonal parses the GML 3.3 compact polygon forms. Their
// rings are implicitly closed: the closing vertex is part of the element's
// semantics, so the parser appends it. vertices pins the expected vertex
// count for SimpleTriangle/SimpleRectangle; 0 means any count of at least 3.
func (p *parser) parseSimplePolygonal(el *etree.Element, dim, vertices int) (geom.T, string, error) {
	flat, stride, srs, err := p.lineCoords(el, dim)
	if err != nil {
		return nil, "", err
	}
	n := len(flat) / stride
	if vertices != 0 && n != vertices {
		return nil, "", structuralf("gml: %s needs exactly %d vertices, got %d", el.Tag, vertices, n)
	}
	if n < 3 {
		return nil, "", structuralf("gml: %s needs at least 3 vertices, got %d", el.Tag, n)
	}
	ring := make([]float64, 0, len(flat)+stride)
	ring = append(ring, flat...)
	ring = append(ring, flat[:stride]...)
	return geom.NewPolygonFlat(layoutForStride(stride), ring, []int{len(ring)}), srs, nil
}

func (p *parser) parseSimpleMultiPoint(el *etree.Element, dim int) (geom.T, string, error) {
	flat, stride, srs, err := p.lineCoords(el, dim)
	if err != nil {
		return nil, "", err
	}
	return geom.NewMultiPointFlat(layoutForStride(stride), flat), srs, nil
}

func dimOr2(dim int) int {
	if dim == 0 {
		return 2
	}
	return dim
}

// childrenNamed returns the direct children whose local name matches one of
// names, in document order.
func childrenNamed(el *etree.Element, names ...string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		for _, n := range names {
			if c.Tag == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// childNamed returns the first direct child with the given local name, or
// nil.
func childNamed(el *etree.Element, name string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == name {
			return c
		}
	}
	return nil
}

// memberChildren collects the geometry elements wrapped in singular
// (one geometry each) or plural (many geometries) member properties, in
// document order.
func memberChildren(el *etree.Element, singular, plural string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == singular || c.Tag == plural {
			out = append(out, c.ChildElements()...)
		}
	}
	return out
}
