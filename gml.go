// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

// Package gml translates geometries between GML dialects (GML 3.1.1 and
// earlier, GML 3.2, the GML 3.3 compact encoding, and GeoRSS basic) and the
// canonical geometry model of github.com/twpayne/go-geom.
//
// The codec works on parsed element trees (github.com/beevik/etree), never
// on raw markup text: Parse consumes an element and returns a geom.T with
// axis order normalized to x/y (longitude/latitude) and the SRID resolved
// from the srsName in effect; Encode builds a new element tree for a target
// dialect from a geom.T. The geo-interface {type, coordinates} projection is
// available through AsGeoJSON and FromGeoJSON.
//
// All exported functions are pure tree walks: no I/O, no internal
// concurrency, no shared mutable state. Distinct goroutines may parse and
// encode concurrently.
package gml

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"

	"github.com/spatialkit/gml/axisorder"
)

// ParseOption configures a Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	dialect    Dialect
	defaultSRS string
}

// WithDialect forces the dialect instead of resolving it from the element's
// namespace.
func WithDialect(d Dialect) ParseOption {
	return func(cfg *parseConfig) { cfg.dialect = d }
}

// WithDefaultSRS sets the srsName to assume when the document declares none.
// It does not override explicit declarations.
func WithDefaultSRS(srsName string) ParseOption {
	return func(cfg *parseConfig) { cfg.defaultSRS = srsName }
}

// Parse decodes a geometry element into the canonical model. The dialect is
// resolved from the element's namespace unless forced with WithDialect.
// Coordinates are returned in x/y order regardless of the axis order the
// source reference system prescribes, and the SRID of the result reflects
// the srsName in effect (0 for the CRS84 default).
func Parse(el *etree.Element, opts ...ParseOption) (geom.T, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	d, err := resolveDialect(el.NamespaceURI(), cfg.dialect)
	if err != nil {
		return nil, err
	}
	if d.id == DialectGeoRSS {
		return parseGeoRSS(el, cfg.defaultSRS)
	}
	p := &parser{d: d, hint: cfg.dialect, defaultSRS: cfg.defaultSRS}
	return p.parseTop(el, 0)
}

// EncodeOption configures an Encode call.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	id      string
	srsName string
}

// WithID sets the identifier written to the outermost element's gml:id
// attribute and used as the seed for generated member identifiers.
func WithID(id string) EncodeOption {
	return func(cfg *encodeConfig) { cfg.id = id }
}

// WithSRSName overrides the srsName written at the outermost element. The
// identifier also decides whether coordinates are written latitude-first.
func WithSRSName(srsName string) EncodeOption {
	return func(cfg *encodeConfig) { cfg.srsName = srsName }
}

// Encode builds the element tree for a geometry in the given dialect. The
// srsName (and with it the axis order of the written coordinate text) is
// derived from the geometry's SRID unless overridden: SRID 0 encodes as
// urn:ogc:def:crs:OGC::CRS84, anything else as urn:ogc:def:crs:EPSG::<srid>.
// The srsName is declared on the outermost element only; nested elements
// inherit it.
func Encode(t geom.T, d Dialect, opts ...EncodeOption) (*etree.Element, error) {
	cfg := encodeConfig{id: "ID"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if d == DialectAuto {
		d = Dialect32
	}
	desc, ok := dialectsByID[d]
	if !ok {
		return nil, unsupportedDialectf("gml: unknown dialect %d", int(d))
	}
	srsName, latFirst, err := encodeSRS(t, cfg.srsName)
	if err != nil {
		return nil, err
	}
	switch d {
	case DialectGeoRSS:
		return encodeGeoRSS(t, cfg.id, srsName, latFirst)
	case Dialect33CE:
		return encodeV33CE(t, cfg.id, srsName, latFirst)
	default:
		e := &encoder{d: desc, swap: latFirst}
		return e.encodeRoot(t, cfg.id, srsName)
	}
}

// encodeSRS picks the srsName to declare for a geometry and resolves its
// axis order.
func encodeSRS(t geom.T, override string) (srsName string, latFirst bool, err error) {
	srsName = override
	if srsName == "" {
		if srid := t.SRID(); srid != 0 {
			srsName = fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", srid)
		} else {
			srsName = "urn:ogc:def:crs:OGC::CRS84"
		}
	}
	_, latFirst, err = axisorder.Resolve(srsName)
	if err != nil {
		return "", false, errors.Mark(err, ErrStructuralMismatch)
	}
	return srsName, latFirst, nil
}

// setSRID assigns an SRID to any concrete geometry type. geom.T has no
// SetSRID in its method set.
func setSRID(t geom.T, srid int) {
	switch t := t.(type) {
	case *geom.Point:
		t.SetSRID(srid)
	case *geom.LineString:
		t.SetSRID(srid)
	case *geom.Polygon:
		t.SetSRID(srid)
	case *geom.MultiPoint:
		t.SetSRID(srid)
	case *geom.MultiLineString:
		t.SetSRID(srid)
	case *geom.MultiPolygon:
		t.SetSRID(srid)
	case *geom.GeometryCollection:
		t.SetSRID(srid)
	}
}

// geomStride returns the coordinate dimensionality of a geometry, or 0 when
// it carries no coordinates (empty geometries, empty collections).
func geomStride(t geom.T) int {
	if gc, ok := t.(*geom.GeometryCollection); ok {
		for _, g := range gc.Geoms() {
			if s := geomStride(g); s != 0 {
				return s
			}
		}
		return 0
	}
	if len(t.FlatCoords()) == 0 {
		return 0
	}
	return t.Layout().Stride()
}
