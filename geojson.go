// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSONFlag is a bitmask of the optional members included by AsGeoJSON.
type GeoJSONFlag int

const (
	// GeoJSONFlagCRS includes a named CRS member derived from the
	// geometry's SRID.
	GeoJSONFlagCRS = GeoJSONFlag(1 << iota)
	// GeoJSONFlagBBox includes the bounding box member.
	GeoJSONFlagBBox

	GeoJSONFlagZero = GeoJSONFlag(0)
)

// AsGeoJSON renders a geometry as its GeoJSON (geo-interface) projection.
// Coordinates are truncated to maxDecimalDigits; pass -1 for full
// precision.
func AsGeoJSON(t geom.T, maxDecimalDigits int, flag GeoJSONFlag) ([]byte, error) {
	opts := []geojson.EncodeGeometryOption{
		geojson.EncodeGeometryWithMaxDecimalDigits(maxDecimalDigits),
	}
	// Do not encode empty bounding boxes. geomStride is zero exactly for
	// geometries (and collections) without coordinates, and is safe to call
	// on a GeometryCollection where FlatCoords is not.
	if flag&GeoJSONFlagBBox != 0 && geomStride(t) != 0 {
		opts = append(opts, geojson.EncodeGeometryWithBBox())
	}
	if flag&GeoJSONFlagCRS != 0 {
		crsName := "urn:ogc:def:crs:OGC::CRS84"
		if srid := t.SRID(); srid != 0 {
			crsName = fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", srid)
		}
		opts = append(opts, geojson.EncodeGeometryWithCRS(&geojson.CRS{
			Type: "name",
			Properties: map[string]interface{}{
				"name": crsName,
			},
		}))
	}
	return geojson.Marshal(t, opts...)
}

// FromGeoJSON parses a GeoJSON geometry into the canonical model.
func FromGeoJSON(data []byte) (geom.T, error) {
	var t geom.T
	if err := geojson.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "gml: parsing GeoJSON")
	}
	return t, nil
}
