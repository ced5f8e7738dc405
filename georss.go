// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"

	"github.com/spatialkit/gml/axisorder"
)

// wgs84SRID is the reference system of the native GeoRSS elements. Their
// coordinate text is always WGS84 in latitude/longitude order.
const wgs84SRID = 4326

// parseGeoRSS parses the GeoRSS basic elements. The native point, line, box
// and polygon forms carry latitude-first WGS84 pairs in their text; the
// result is swapped to x/y and left on the SRID 0 longitude-first default.
// A georss:where defers to the GML dialect of its single child, with
// defaultSRS applying to that child.
func parseGeoRSS(el *etree.Element, defaultSRS string) (geom.T, error) {
	switch el.Tag {
	case "point":
		flat, err := parsePosText(el.Text(), 2)
		if err != nil {
			return nil, err
		}
		swapFlat(flat, 2)
		return geom.NewPointFlat(geom.XY, flat), nil

	case "line":
		flat, err := georssPairs(el)
		if err != nil {
			return nil, err
		}
		if len(flat) < 4 {
			return nil, structuralf("gml: georss:line needs at least 2 coordinate pairs")
		}
		return geom.NewLineStringFlat(geom.XY, flat), nil

	case "box":
		flat, err := georssPairs(el)
		if err != nil {
			return nil, err
		}
		if len(flat) != 4 {
			return nil, structuralf("gml: georss:box must carry exactly two corners, got %d pairs", len(flat)/2)
		}
		lx, ly := flat[0], flat[1]
		hx, hy := flat[2], flat[3]
		ring := []float64{lx, ly, lx, hy, hx, hy, hx, ly, lx, ly}
		return geom.NewPolygonFlat(geom.XY, ring, []int{len(ring)}), nil

	case "polygon":
		flat, err := georssPairs(el)
		if err != nil {
			return nil, err
		}
		if err := validateRing(flat, 2, "georss:polygon"); err != nil {
			return nil, err
		}
		return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}), nil

	case "where":
		children := el.ChildElements()
		if len(children) != 1 {
			return nil, structuralf("gml: georss:where must contain exactly one geometry, got %d", len(children))
		}
		child := children[0]
		d, err := resolveDialect(child.NamespaceURI(), DialectAuto)
		if err != nil {
			return nil, err
		}
		if d.id == DialectGeoRSS {
			return nil, structuralf("gml: georss:where cannot nest another GeoRSS element")
		}
		p := &parser{d: d, defaultSRS: defaultSRS}
		return p.parseTop(child, 0)

	default:
		return nil, unknownElementf("gml: element %q is not a GeoRSS geometry", el.Tag)
	}
}

// georssPairs parses latitude-first pair text and swaps it to x/y.
func georssPairs(el *etree.Element) ([]float64, error) {
	flat, _, err := parseTupleText(el.Text(), 2)
	if err != nil {
		return nil, err
	}
	swapFlat(flat, 2)
	return flat, nil
}

// encodeGeoRSS encodes a geometry for GeoRSS. The native forms express only
// two-dimensional points, lines and exterior-only polygons in WGS84, so
// everything else (aggregates, collections, holed polygons, 3D runs, other
// reference systems) is wrapped in georss:where around a GML 3.1.1
// encoding.
func encodeGeoRSS(t geom.T, id, srsName string, latFirst bool) (*etree.Element, error) {
	srid, _, err := axisorder.Resolve(srsName)
	if err != nil {
		return nil, errors.Mark(err, ErrStructuralMismatch)
	}

	if srid == 0 || srid == wgs84SRID {
		if el := georssNative(t); el != nil {
			return el, nil
		}
	}

	where := etree.NewElement("georss:where")
	where.CreateAttr("xmlns:georss", NamespaceGeoRSS)
	e := &encoder{d: dialectGML311, swap: latFirst}
	child, err := e.encodeRoot(t, id, srsName)
	if err != nil {
		return nil, err
	}
	where.AddChild(child)
	return where, nil
}

// georssNative renders a geometry as a native GeoRSS element, or nil when
// no native form can express it. Native text is always latitude-first.
// The type switch runs first: collections have no flat coordinates and
// always take the where fallback.
func georssNative(t geom.T) *etree.Element {
	var name string
	switch t := t.(type) {
	case *geom.Point:
		name = "point"
	case *geom.LineString:
		name = "line"
	case *geom.Polygon:
		if t.NumLinearRings() != 1 {
			return nil
		}
		name = "polygon"
	default:
		return nil
	}
	if len(t.FlatCoords()) == 0 || t.Layout().Stride() != 2 {
		return nil
	}
	return georssTextElement(name, t.FlatCoords())
}

func georssTextElement(name string, flat []float64) *etree.Element {
	el := etree.NewElement("georss:" + name)
	el.CreateAttr("xmlns:georss", NamespaceGeoRSS)
	el.SetText(formatTupleText(flat, 2, true))
	return el
}
