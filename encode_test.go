// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// elementString serializes an element the way a caller writing the encoded
// document would.
func elementString(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el)
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		desc    string
		g       geom.T
		dialect Dialect
		opts    []EncodeOption
		want    string
	}{
		{
			desc:    "point with the CRS84 default",
			g:       geom.NewPointFlat(geom.XY, []float64{1, 2}),
			dialect: Dialect32,
			want:    `<gml:Point gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:pos>1 2</gml:pos></gml:Point>`,
		},
		{
			desc:    "latitude-first SRID swaps the written text",
			g:       geom.NewPointFlat(geom.XY, []float64{11, 52}).SetSRID(4326),
			dialect: Dialect32,
			want:    `<gml:Point gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:EPSG::4326"><gml:pos>52 11</gml:pos></gml:Point>`,
		},
		{
			desc:    "longitude-first SRID keeps the order",
			g:       geom.NewPointFlat(geom.XY, []float64{1, 2}).SetSRID(3857),
			dialect: Dialect32,
			want:    `<gml:Point gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:EPSG::3857"><gml:pos>1 2</gml:pos></gml:Point>`,
		},
		{
			desc:    "pre-3.2 namespace",
			g:       geom.NewPointFlat(geom.XY, []float64{1, 2}),
			dialect: Dialect311,
			want:    `<gml:Point gml:id="ID" xmlns:gml="http://www.opengis.net/gml" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:pos>1 2</gml:pos></gml:Point>`,
		},
		{
			desc:    "custom id and srsName",
			g:       geom.NewPointFlat(geom.XY, []float64{1, 2}),
			dialect: Dialect32,
			opts:    []EncodeOption{WithID("pt-1"), WithSRSName("EPSG:3857")},
			want:    `<gml:Point gml:id="pt-1" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="EPSG:3857"><gml:pos>1 2</gml:pos></gml:Point>`,
		},
		{
			desc:    "line string",
			g:       geom.NewLineStringFlat(geom.XY, []float64{1, 2, 3, 4}),
			dialect: Dialect32,
			want:    `<gml:LineString gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:posList>1 2 3 4</gml:posList></gml:LineString>`,
		},
		{
			desc:    "three-dimensional runs declare srsDimension",
			g:       geom.NewLineStringFlat(geom.XYZ, []float64{1, 2, 3, 4, 5, 6}),
			dialect: Dialect32,
			want:    `<gml:LineString gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:posList srsDimension="3">1 2 3 4 5 6</gml:posList></gml:LineString>`,
		},
		{
			desc: "polygon with hole",
			g: geom.NewPolygonFlat(
				geom.XY,
				[]float64{0, 0, 4, 0, 4, 4, 0, 4, 0, 0, 1, 1, 2, 1, 2, 2, 1, 2, 1, 1},
				[]int{10, 20},
			),
			dialect: Dialect32,
			want: `<gml:Polygon gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84">` +
				`<gml:exterior><gml:LinearRing><gml:posList>0 0 4 0 4 4 0 4 0 0</gml:posList></gml:LinearRing></gml:exterior>` +
				`<gml:interior><gml:LinearRing><gml:posList>1 1 2 1 2 2 1 2 1 1</gml:posList></gml:LinearRing></gml:interior>` +
				`</gml:Polygon>`,
		},
		{
			desc:    "multi point members are numbered",
			g:       geom.NewMultiPointFlat(geom.XY, []float64{1, 2, 3, 4}),
			dialect: Dialect32,
			want: `<gml:MultiPoint gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:pointMembers>` +
				`<gml:Point gml:id="ID_0"><gml:pos>1 2</gml:pos></gml:Point>` +
				`<gml:Point gml:id="ID_1"><gml:pos>3 4</gml:pos></gml:Point>` +
				`</gml:pointMembers></gml:MultiPoint>`,
		},
		{
			desc:    "multi line string becomes a MultiCurve",
			g:       geom.NewMultiLineStringFlat(geom.XY, []float64{0, 0, 1, 1, 2, 2, 3, 3}, []int{4, 8}),
			dialect: Dialect32,
			want: `<gml:MultiCurve gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:curveMembers>` +
				`<gml:LineString gml:id="ID_0"><gml:posList>0 0 1 1</gml:posList></gml:LineString>` +
				`<gml:LineString gml:id="ID_1"><gml:posList>2 2 3 3</gml:posList></gml:LineString>` +
				`</gml:curveMembers></gml:MultiCurve>`,
		},
		{
			desc:    "multi polygon becomes a MultiSurface",
			g:       geom.NewMultiPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 0}, [][]int{{8}}),
			dialect: Dialect32,
			want: `<gml:MultiSurface gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:surfaceMembers>` +
				`<gml:Polygon gml:id="ID_0"><gml:exterior><gml:LinearRing><gml:posList>0 0 1 0 1 1 0 0</gml:posList></gml:LinearRing></gml:exterior></gml:Polygon>` +
				`</gml:surfaceMembers></gml:MultiSurface>`,
		},
		{
			desc: "geometry collection",
			g: geom.NewGeometryCollection().MustPush(
				geom.NewPointFlat(geom.XY, []float64{1, 2}),
				geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1}),
			),
			dialect: Dialect32,
			want: `<gml:MultiGeometry gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:geometryMembers>` +
				`<gml:Point gml:id="ID_0"><gml:pos>1 2</gml:pos></gml:Point>` +
				`<gml:LineString gml:id="ID_1"><gml:posList>0 0 1 1</gml:posList></gml:LineString>` +
				`</gml:geometryMembers></gml:MultiGeometry>`,
		},
		{
			desc:    "empty multi point keeps its members container",
			g:       geom.NewMultiPointFlat(geom.XY, nil),
			dialect: Dialect32,
			want:    `<gml:MultiPoint gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:pointMembers/></gml:MultiPoint>`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			el, err := Encode(tc.g, tc.dialect, tc.opts...)
			require.NoError(t, err)
			require.Equal(t, tc.want, elementString(t, el))
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Run("empty point", func(t *testing.T) {
		_, err := Encode(geom.NewPointEmpty(geom.XY), Dialect32)
		require.True(t, errors.Is(err, ErrStructuralMismatch))
	})
	t.Run("empty line string", func(t *testing.T) {
		_, err := Encode(geom.NewLineString(geom.XY), Dialect32)
		require.True(t, errors.Is(err, ErrStructuralMismatch))
	})
	t.Run("invalid srsName override", func(t *testing.T) {
		_, err := Encode(geom.NewPointFlat(geom.XY, []float64{1, 2}), Dialect32, WithSRSName("abcd:4326"))
		require.True(t, errors.Is(err, ErrStructuralMismatch))
	})
	t.Run("unknown dialect", func(t *testing.T) {
		_, err := Encode(geom.NewPointFlat(geom.XY, []float64{1, 2}), Dialect(42))
		require.True(t, errors.Is(err, ErrUnsupportedDialect))
	})
}

func TestEncodeCompact(t *testing.T) {
	testCases := []struct {
		desc string
		g    geom.T
		want string
	}{
		{
			desc: "triangle",
			g:    geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 0, 1, 0, 0}, []int{8}),
			want: `<gmlce:SimpleTriangle xmlns:gmlce="http://www.opengis.net/gml/3.3/ce" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84" gml:id="ID"><gml:posList>0 0 1 0 0 1</gml:posList></gmlce:SimpleTriangle>`,
		},
		{
			desc: "rectangle",
			g:    geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}, []int{10}),
			want: `<gmlce:SimpleRectangle xmlns:gmlce="http://www.opengis.net/gml/3.3/ce" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84" gml:id="ID"><gml:posList>0 0 1 0 1 1 0 1</gml:posList></gmlce:SimpleRectangle>`,
		},
		{
			desc: "larger rings become SimplePolygon",
			g:    geom.NewPolygonFlat(geom.XY, []float64{0, 0, 2, 0, 2, 2, 1, 3, 0, 2, 0, 0}, []int{12}),
			want: `<gmlce:SimplePolygon xmlns:gmlce="http://www.opengis.net/gml/3.3/ce" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84" gml:id="ID"><gml:posList>0 0 2 0 2 2 1 3 0 2</gml:posList></gmlce:SimplePolygon>`,
		},
		{
			desc: "holed polygons fall back to plain GML",
			g: geom.NewPolygonFlat(
				geom.XY,
				[]float64{0, 0, 4, 0, 4, 4, 0, 4, 0, 0, 1, 1, 2, 1, 2, 2, 1, 2, 1, 1},
				[]int{10, 20},
			),
			want: `<gml:Polygon gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84">` +
				`<gml:exterior><gml:LinearRing><gml:posList>0 0 4 0 4 4 0 4 0 0</gml:posList></gml:LinearRing></gml:exterior>` +
				`<gml:interior><gml:LinearRing><gml:posList>1 1 2 1 2 2 1 2 1 1</gml:posList></gml:LinearRing></gml:interior>` +
				`</gml:Polygon>`,
		},
		{
			desc: "points fall back to plain GML",
			g:    geom.NewPointFlat(geom.XY, []float64{1, 2}),
			want: `<gml:Point gml:id="ID" xmlns:gml="http://www.opengis.net/gml/3.2" srsName="urn:ogc:def:crs:OGC::CRS84"><gml:pos>1 2</gml:pos></gml:Point>`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			el, err := Encode(tc.g, Dialect33CE)
			require.NoError(t, err)
			require.Equal(t, tc.want, elementString(t, el))
		})
	}
}
