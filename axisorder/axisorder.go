// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

// Package axisorder resolves coordinate reference system identifiers
// (srsName attribute values) to an authority/code pair and decides the
// axis order of coordinates expressed in that reference system.
//
// GML allows the same reference system to be spelled in several ways:
//
//   - EPSG:4326
//   - urn:ogc:def:crs:EPSG::4326
//   - urn:ogc:def:crs:EPSG:4326
//   - urn:EPSG:geographicCRS:4326
//   - http://www.opengis.net/def/crs/EPSG/0/4326
//   - http://www.opengis.net/gml/srs/epsg.xml#4326
//
// The axis-order table is immutable package state built at init and is safe
// for concurrent reads.
package axisorder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// srsNameREs cover the identifier spellings above. Each pattern captures the
// authority first and the code second.
var srsNameREs = []*regexp.Regexp{
	regexp.MustCompile(`^urn:ogc:def:crs:([A-Za-z0-9]+)(?::[-\w.]*)?:(\w+)$`),
	regexp.MustCompile(`^urn:([A-Za-z0-9]+):geographicCRS:(\w+)$`),
	regexp.MustCompile(`^https?://www\.opengis\.net/def/crs/([A-Za-z0-9]+)/[\d.]+/(\w+)$`),
	regexp.MustCompile(`^https?://www\.opengis\.net/gml/srs/([A-Za-z0-9]+)\.xml#(\w+)$`),
	regexp.MustCompile(`^([A-Za-z0-9]+):+(\w+)$`),
}

// latLonCodes lists EPSG geographic reference systems whose official axis
// order is latitude/longitude. This is the subset of the EPSG registry seen
// in geospatial feeds in practice, not the full registry.
var latLonCodes = map[int]struct{}{
	4171: {}, // RGF93
	4181: {}, // Luxembourg 1930
	4230: {}, // ED50
	4258: {}, // ETRS89
	4267: {}, // NAD27
	4269: {}, // NAD83
	4283: {}, // GDA94
	4300: {}, // TM65
	4326: {}, // WGS 84
	4617: {}, // NAD83(CSRS)
	4619: {}, // SWEREF99
	4667: {}, // IKBD-92
	4674: {}, // SIRGAS 2000
	4686: {}, // MAGNA-SIRGAS
	4737: {}, // Korea 2000
	4749: {}, // RGNC91-93
	4765: {}, // SRGI2013
	4801: {}, // Bern 1898 (Bern)
	4936: {}, // ETRS89 geocentric
	4937: {}, // ETRS89 3D
	4959: {}, // NZGD2000 3D
	4979: {}, // WGS 84 3D
	7844: {}, // GDA2020
}

// Parse splits an srsName identifier into its authority and code parts.
// Only the EPSG and OGC authorities are recognized.
func Parse(srsName string) (authority, code string, err error) {
	for _, re := range srsNameREs {
		if m := re.FindStringSubmatch(srsName); m != nil {
			authority = strings.ToUpper(m[1])
			code = m[2]
			if authority != "EPSG" && authority != "OGC" {
				return "", "", errors.Newf("axisorder: unsupported srsName authority %q in %q", m[1], srsName)
			}
			return authority, code, nil
		}
	}
	return "", "", errors.Newf("axisorder: cannot parse srsName %q", srsName)
}

// IsLatLon reports whether coordinates referenced to the given srsName are
// written latitude-first. Identifiers with a well-formed but unknown code
// default to longitude-first.
func IsLatLon(srsName string) (bool, error) {
	_, latFirst, err := Resolve(srsName)
	return latFirst, err
}

// Resolve maps an srsName to a numeric SRID and its axis order. Every
// spelling of OGC CRS84 resolves to SRID 0, the longitude-first default of
// the canonical model.
func Resolve(srsName string) (srid int, latFirst bool, err error) {
	authority, code, err := Parse(srsName)
	if err != nil {
		return 0, false, err
	}
	if authority == "OGC" {
		if strings.EqualFold(code, "CRS84") {
			return 0, false, nil
		}
		return 0, false, errors.Newf("axisorder: unsupported OGC reference system %q", code)
	}
	srid, err = strconv.Atoi(code)
	if err != nil {
		return 0, false, errors.Newf("axisorder: non-numeric EPSG code %q in %q", code, srsName)
	}
	_, latFirst = latLonCodes[srid]
	return srid, latFirst, nil
}
