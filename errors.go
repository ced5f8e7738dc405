// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

package gml

import "github.com/cockroachdb/errors"

// The four error kinds raised by the codec. Every error returned from Parse
// or Encode matches exactly one of these under errors.Is; the wrapped detail
// names the offending element or text. None of them are transient: they all
// indicate a defective document or in-memory geometry.
var (
	// ErrUnsupportedDialect is returned when an element's namespace is not
	// one of the supported GML/GeoRSS namespaces.
	ErrUnsupportedDialect = errors.New("unsupported dialect")

	// ErrUnknownGeometryElement is returned when an element's local name has
	// no geometry binding in the resolved dialect.
	ErrUnknownGeometryElement = errors.New("unknown geometry element")

	// ErrStructuralMismatch is returned when a required child is missing, a
	// ring is not closed, dimensionalities disagree within one geometry, or
	// srsName declarations conflict.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrMalformedCoordinates is returned when coordinate text does not
	// tokenize into complete tuples or a scalar fails numeric parsing.
	ErrMalformedCoordinates = errors.New("malformed coordinates")
)

func unsupportedDialectf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnsupportedDialect)
}

func unknownElementf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrUnknownGeometryElement)
}

func structuralf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrStructuralMismatch)
}

func malformedf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrMalformedCoordinates)
}
