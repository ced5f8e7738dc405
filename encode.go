// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/twpayne/go-geom"
)

// encoder writes the GML v3 dialects (3.1.1 and 3.2). The compact 3.3
// forms and GeoRSS wrap it: they fall back to a plain v3 encoding for
// whatever their own conventions cannot express.
type encoder struct {
	d    *dialect
	swap bool
}

// encodeRoot encodes a geometry as the outermost element of a document
// fragment: the element declares the gml namespace, carries the gml:id and
// declares the srsName. Nested members inherit all three scopes.
func (e *encoder) encodeRoot(t geom.T, id, srsName string) (*etree.Element, error) {
	el, err := e.encodeGeometry(t, id)
	if err != nil {
		return nil, err
	}
	el.CreateAttr("xmlns:gml", e.d.namespace)
	declareSRS(el, srsName)
	return el, nil
}

func declareSRS(el *etree.Element, srsName string) {
	if srsName != "" {
		el.CreateAttr("srsName", srsName)
	}
}

func (e *encoder) encodeGeometry(t geom.T, id string) (*etree.Element, error) {
	switch t := t.(type) {
	case *geom.Point:
		return e.encodePoint(t, id)
	case *geom.LineString:
		return e.encodeLineString(t, id)
	case *geom.Polygon:
		return e.encodePolygon(t, id)
	case *geom.MultiPoint:
		return e.encodeMultiPoint(t, id)
	case *geom.MultiLineString:
		return e.encodeMultiLineString(t, id)
	case *geom.MultiPolygon:
		return e.encodeMultiPolygon(t, id)
	case *geom.GeometryCollection:
		return e.encodeGeometryCollection(t, id)
	default:
		return nil, unknownElementf("gml: cannot encode geometry type %T", t)
	}
}

func newGMLElement(name, id string) *etree.Element {
	el := etree.NewElement("gml:" + name)
	el.CreateAttr("gml:id", id)
	return el
}

// memberID derives the identifier of the i-th member from the aggregate's
// identifier.
func memberID(id string, i int) string {
	return fmt.Sprintf("%s_%d", id, i)
}

func (e *encoder) encodePoint(t *geom.Point, id string) (*etree.Element, error) {
	flat := t.FlatCoords()
	if len(flat) == 0 {
		return nil, structuralf("gml: cannot encode an empty Point")
	}
	el := newGMLElement("Point", id)
	pos := el.CreateElement("gml:pos")
	pos.SetText(formatTupleText(flat, t.Layout().Stride(), e.swap))
	return el, nil
}

// writePosList writes a posList child. Three-dimensional runs declare their
// srsDimension so a reader does not have to infer the stride from the
// scalar count.
func (e *encoder) writePosList(el *etree.Element, flat []float64, stride int) {
	pl := el.CreateElement("gml:posList")
	if stride == 3 {
		pl.CreateAttr("srsDimension", "3")
	}
	pl.SetText(formatTupleText(flat, stride, e.swap))
}

func (e *encoder) encodeLineString(t *geom.LineString, id string) (*etree.Element, error) {
	if len(t.FlatCoords()) == 0 {
		return nil, structuralf("gml: cannot encode an empty LineString")
	}
	el := newGMLElement("LineString", id)
	e.writePosList(el, t.FlatCoords(), t.Layout().Stride())
	return el, nil
}

func (e *encoder) encodePolygon(t *geom.Polygon, id string) (*etree.Element, error) {
	if len(t.FlatCoords()) == 0 {
		return nil, structuralf("gml: cannot encode an empty Polygon")
	}
	el := newGMLElement("Polygon", id)
	e.writePolygonRings(el, t)
	return el, nil
}

// writePolygonRings writes the exterior/interior boundary structure of a
// polygon into el.
func (e *encoder) writePolygonRings(el *etree.Element, t *geom.Polygon) {
	stride := t.Layout().Stride()
	flat := t.FlatCoords()
	ends := t.Ends()
	start := 0
	for i, end := range ends {
		boundary := "interior"
		if i == 0 {
			boundary = "exterior"
		}
		ring := el.CreateElement("gml:" + boundary).CreateElement("gml:LinearRing")
		e.writePosList(ring, flat[start:end], stride)
		start = end
	}
}

func (e *encoder) encodeMultiPoint(t *geom.MultiPoint, id string) (*etree.Element, error) {
	el := newGMLElement("MultiPoint", id)
	members := el.CreateElement("gml:pointMembers")
	for i := 0; i < t.NumPoints(); i++ {
		m, err := e.encodePoint(t.Point(i), memberID(id, i))
		if err != nil {
			return nil, err
		}
		members.AddChild(m)
	}
	return el, nil
}

// encodeMultiLineString writes a MultiCurve: the GML v3 aggregate for
// curves. The parser accepts the pre-3.2 MultiLineString spelling as well,
// but encoding always uses the v3 name.
func (e *encoder) encodeMultiLineString(t *geom.MultiLineString, id string) (*etree.Element, error) {
	el := newGMLElement("MultiCurve", id)
	members := el.CreateElement("gml:curveMembers")
	for i := 0; i < t.NumLineStrings(); i++ {
		m, err := e.encodeLineString(t.LineString(i), memberID(id, i))
		if err != nil {
			return nil, err
		}
		members.AddChild(m)
	}
	return el, nil
}

// encodeMultiPolygon writes a MultiSurface, the v3 aggregate for surfaces.
func (e *encoder) encodeMultiPolygon(t *geom.MultiPolygon, id string) (*etree.Element, error) {
	el := newGMLElement("MultiSurface", id)
	members := el.CreateElement("gml:surfaceMembers")
	for i := 0; i < t.NumPolygons(); i++ {
		m, err := e.encodePolygon(t.Polygon(i), memberID(id, i))
		if err != nil {
			return nil, err
		}
		members.AddChild(m)
	}
	return el, nil
}

func (e *encoder) encodeGeometryCollection(t *geom.GeometryCollection, id string) (*etree.Element, error) {
	el := newGMLElement("MultiGeometry", id)
	members := el.CreateElement("gml:geometryMembers")
	for i, g := range t.Geoms() {
		m, err := e.encodeGeometry(g, memberID(id, i))
		if err != nil {
			return nil, err
		}
		members.AddChild(m)
	}
	return el, nil
}

// encodeV33CE encodes for the GML 3.3 compact encoding. Only single-ring
// polygons have a compact form; triangles and rectangles get their
// dedicated elements, other single-ring polygons become SimplePolygon.
// Everything else (points, lines, holed polygons, aggregates) falls back to
// the GML 3.2 encoding the compact profile is layered on.
func encodeV33CE(t geom.T, id, srsName string, latFirst bool) (*etree.Element, error) {
	e := &encoder{d: dialectGML32, swap: latFirst}
	poly, ok := t.(*geom.Polygon)
	if !ok || poly.NumLinearRings() != 1 {
		return e.encodeRoot(t, id, srsName)
	}

	stride := poly.Layout().Stride()
	flat := poly.FlatCoords()
	// The compact forms write the ring without its closing vertex.
	open := flat[:len(flat)-stride]
	name := "SimplePolygon"
	switch len(open) / stride {
	case 3:
		name = "SimpleTriangle"
	case 4:
		name = "SimpleRectangle"
	}

	el := etree.NewElement("gmlce:" + name)
	el.CreateAttr("xmlns:gmlce", NamespaceGML33CE)
	el.CreateAttr("xmlns:gml", NamespaceGML32)
	declareSRS(el, srsName)
	el.CreateAttr("gml:id", id)
	e.writePosList(el, open, stride)
	return el, nil
}
