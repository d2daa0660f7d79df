package window

import "errors"

var (
	// ErrInvalidLabel is returned when a window label is empty or contains a
	// character outside the accepted set (alphanumerics, '-', '/', ':' and
	// '_').
	ErrInvalidLabel = errors.New("window: invalid label")

	// ErrInvalidIcon is returned when an icon carries neither a path nor
	// raw image data, or both.
	ErrInvalidIcon = errors.New("window: icon needs exactly one of path or data")
)
