package pdfmark

import "errors"

var (
	// ErrNoWatermarks is returned by Apply when nothing has been registered.
	ErrNoWatermarks = errors.New("no watermarks registered")

	// ErrInvalidArgument wraps configuration values rejected by a setter or
	// by Apply's entry validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat is returned when an image cannot be decoded as
	// one of the supported encodings.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrExternalTool is returned when the pdftk fallback is needed but the
	// binary is missing, times out, or exits non-zero.
	ErrExternalTool = errors.New("external tool failure")
)
