// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package axisorder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		desc          string
		srsName       string
		wantAuthority string
		wantCode      string
		wantErr       bool
	}{
		{desc: "plain EPSG", srsName: "EPSG:4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "urn with empty version", srsName: "urn:ogc:def:crs:EPSG::4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "urn without version", srsName: "urn:ogc:def:crs:EPSG:4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "urn with version", srsName: "urn:ogc:def:crs:EPSG:6.3:4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "geographicCRS urn", srsName: "urn:EPSG:geographicCRS:4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "opengis def URL", srsName: "http://www.opengis.net/def/crs/EPSG/0/4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "epsg.xml URL", srsName: "http://www.opengis.net/gml/srs/epsg.xml#4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "lowercase authority", srsName: "epsg:4326", wantAuthority: "EPSG", wantCode: "4326"},
		{desc: "CRS84 urn", srsName: "urn:ogc:def:crs:OGC::CRS84", wantAuthority: "OGC", wantCode: "CRS84"},
		{desc: "CRS84 urn with version", srsName: "urn:ogc:def:crs:OGC:1.3:CRS84", wantAuthority: "OGC", wantCode: "CRS84"},
		{desc: "unknown authority", srsName: "abcd:4326", wantErr: true},
		{desc: "free text", srsName: "not a reference system", wantErr: true},
		{desc: "empty", srsName: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			authority, code, err := Parse(tc.srsName)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantAuthority, authority)
			require.Equal(t, tc.wantCode, code)
		})
	}
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		desc         string
		srsName      string
		wantSRID     int
		wantLatFirst bool
		wantErr      bool
	}{
		{desc: "WGS 84 is latitude-first", srsName: "EPSG:4326", wantSRID: 4326, wantLatFirst: true},
		{desc: "WGS 84 urn", srsName: "urn:ogc:def:crs:EPSG::4326", wantSRID: 4326, wantLatFirst: true},
		{desc: "ETRS89 is latitude-first", srsName: "EPSG:4258", wantSRID: 4258, wantLatFirst: true},
		{desc: "web mercator is not", srsName: "EPSG:3857", wantSRID: 3857},
		{desc: "unknown code defaults to longitude-first", srsName: "EPSG:99999", wantSRID: 99999},
		{desc: "CRS84 resolves to SRID zero", srsName: "urn:ogc:def:crs:OGC::CRS84", wantSRID: 0},
		{desc: "non-numeric EPSG code", srsName: "EPSG:abc", wantErr: true},
		{desc: "unknown OGC system", srsName: "urn:ogc:def:crs:OGC::CRS27", wantErr: true},
		{desc: "unknown authority", srsName: "abcd:4326", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srid, latFirst, err := Resolve(tc.srsName)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantSRID, srid)
			require.Equal(t, tc.wantLatFirst, latFirst)
		})
	}
}

func TestIsLatLon(t *testing.T) {
	latFirst, err := IsLatLon("urn:ogc:def:crs:EPSG::4326")
	require.NoError(t, err)
	require.True(t, latFirst)

	latFirst, err = IsLatLon("EPSG:3857")
	require.NoError(t, err)
	require.False(t, latFirst)

	_, err = IsLatLon("garbage")
	require.Error(t, err)
}
