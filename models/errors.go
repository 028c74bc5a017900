package models

import "errors"

// Error taxonomy shared by the core pipeline and the CLI actions.
var (
	// ErrInvalidInput is returned when markup handed to the analyzer or codec
	// is not text (invalid UTF-8).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned for out-of-range settings such as a
	// non-positive max mappings bound.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO wraps failures reading the input or writing the package.
	ErrIO = errors.New("i/o error")

	// ErrRoundTrip is returned when verification finds that decoding the
	// compressed document does not reproduce the input.
	ErrRoundTrip = errors.New("round trip mismatch")

	// ErrMalformedPackage is returned when a file does not look like a
	// package produced by this tool.
	ErrMalformedPackage = errors.New("malformed package")
)
