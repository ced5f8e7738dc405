// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

// Dialect identifies one of the supported markup geometry dialects.
type Dialect int

const (
	// DialectAuto resolves the dialect from the element's namespace.
	DialectAuto Dialect = iota
	// Dialect311 is GML 3.1.1 and earlier (http://www.opengis.net/gml).
	Dialect311
	// Dialect32 is GML 3.2 (http://www.opengis.net/gml/3.2).
	Dialect32
	// Dialect33CE is the GML 3.3 compact encoding
	// (http://www.opengis.net/gml/3.3/ce); it also accepts GML 3.2 elements.
	Dialect33CE
	// DialectGeoRSS is GeoRSS basic (http://www.georss.org/georss).
	DialectGeoRSS
)

func (d Dialect) String() string {
	switch d {
	case DialectAuto:
		return "auto"
	case Dialect311:
		return "gml-3.1.1"
	case Dialect32:
		return "gml-3.2"
	case Dialect33CE:
		return "gml-3.3-ce"
	case DialectGeoRSS:
		return "georss"
	default:
		return "unknown"
	}
}

// Namespace URIs of the supported dialects.
const (
	NamespaceGML311  = "http://www.opengis.net/gml"
	NamespaceGML32   = "http://www.opengis.net/gml/3.2"
	NamespaceGML33CE = "http://www.opengis.net/gml/3.3/ce"
	NamespaceGeoRSS  = "http://www.georss.org/georss"
)

// geomKind tags the geometry element bindings of a dialect. Element names
// are dispatched through an explicit kind table rather than by probing
// element structure.
type geomKind int

const (
	kindPoint geomKind = iota
	kindLineString
	kindLinearRing
	kindPolygon
	kindCurve
	kindSurface
	kindCompositeCurve
	kindCompositeSurface
	kindMultiPoint
	kindMultiCurve
	kindMultiLineString
	kindMultiSurface
	kindMultiPolygon
	kindMultiGeometry
	kindEnvelope
	kindBox
	kindSimpleTriangle
	kindSimpleRectangle
	kindSimplePolygon
	kindSimpleMultiPoint
)

// dialect is the immutable descriptor for one markup dialect: its namespace,
// the local-name to geometry-kind bindings valid in it, and its quirk flags.
// Descriptors are built once at package init and shared read-only across
// concurrent parse/encode calls.
type dialect struct {
	id        Dialect
	namespace string
	prefix    string
	kinds     map[string]geomKind

	// compact enables the GML 3.3 Simple* element forms.
	compact bool
	// curves enables Curve/Surface/Ring/Composite* composites.
	curves bool
	// legacy enables pre-3.2 forms: coord X/Y/Z children, Box, and the
	// outerBoundaryIs/innerBoundaryIs polygon boundary names.
	legacy bool
}

func v3Kinds() map[string]geomKind {
	return map[string]geomKind{
		"Point":            kindPoint,
		"LineString":       kindLineString,
		"LinearRing":       kindLinearRing,
		"Polygon":          kindPolygon,
		"Curve":            kindCurve,
		"Surface":          kindSurface,
		"CompositeCurve":   kindCompositeCurve,
		"CompositeSurface": kindCompositeSurface,
		"MultiPoint":       kindMultiPoint,
		"MultiCurve":       kindMultiCurve,
		"MultiLineString":  kindMultiLineString,
		"MultiSurface":     kindMultiSurface,
		"MultiPolygon":     kindMultiPolygon,
		"MultiGeometry":    kindMultiGeometry,
		"Envelope":         kindEnvelope,
	}
}

var (
	dialectGML311 = &dialect{
		id:        Dialect311,
		namespace: NamespaceGML311,
		prefix:    "gml",
		kinds: func() map[string]geomKind {
			k := v3Kinds()
			k["Box"] = kindBox
			return k
		}(),
		curves: true,
		legacy: true,
	}

	dialectGML32 = &dialect{
		id:        Dialect32,
		namespace: NamespaceGML32,
		prefix:    "gml",
		kinds:     v3Kinds(),
		curves:    true,
	}

	dialectGML33CE = &dialect{
		id:        Dialect33CE,
		namespace: NamespaceGML33CE,
		prefix:    "gmlce",
		kinds: func() map[string]geomKind {
			k := v3Kinds()
			k["SimpleTriangle"] = kindSimpleTriangle
			k["SimpleRectangle"] = kindSimpleRectangle
			k["SimplePolygon"] = kindSimplePolygon
			k["SimpleMultiPoint"] = kindSimpleMultiPoint
			return k
		}(),
		compact: true,
		curves:  true,
	}

	dialectGeoRSS = &dialect{
		id:        DialectGeoRSS,
		namespace: NamespaceGeoRSS,
		prefix:    "georss",
	}
)

var dialectsByNamespace = map[string]*dialect{
	NamespaceGML311:  dialectGML311,
	NamespaceGML32:   dialectGML32,
	NamespaceGML33CE: dialectGML33CE,
	NamespaceGeoRSS:  dialectGeoRSS,
}

var dialectsByID = map[Dialect]*dialect{
	Dialect311:    dialectGML311,
	Dialect32:     dialectGML32,
	Dialect33CE:   dialectGML33CE,
	DialectGeoRSS: dialectGeoRSS,
}

// resolveDialect maps a namespace URI (and an optional explicit hint) to a
// dialect descriptor. The hint wins over the namespace; with DialectAuto the
// namespace must match one of the supported dialects exactly. Resolution
// happens per geometry element, so documents mixing namespaces at different
// scopes resolve each element against the namespace actually in effect.
func resolveDialect(namespaceURI string, hint Dialect) (*dialect, error) {
	if hint != DialectAuto {
		d, ok := dialectsByID[hint]
		if !ok {
			return nil, unsupportedDialectf("gml: unknown dialect %d", int(hint))
		}
		return d, nil
	}
	d, ok := dialectsByNamespace[namespaceURI]
	if !ok {
		return nil, unsupportedDialectf("gml: namespace %q is not supported", namespaceURI)
	}
	return d, nil
}
