// Package dpi provides the logical/physical geometry values exchanged with a
// window host. Physical values are in hardware pixels; logical values are
// physical values scaled by the monitor's scale factor. Setter commands carry
// a discriminant tag on the wire so the host knows which flavor it received.
package dpi

import (
	"errors"
	"math"
)

// Validation errors for tagged geometry values.
var (
	// ErrInvalidSize is returned when a size value is nil or carries an
	// unknown discriminant.
	ErrInvalidSize = errors.New("size must be a LogicalSize or a PhysicalSize")

	// ErrInvalidPosition is returned when a position value is nil or carries
	// an unknown discriminant.
	ErrInvalidPosition = errors.New("position must be a LogicalPosition or a PhysicalPosition")
)

// Kind discriminates logical from physical geometry on the wire.
type Kind string

const (
	// Logical marks a value in scale-independent units.
	Logical Kind = "Logical"

	// Physical marks a value in hardware pixels.
	Physical Kind = "Physical"
)

// PhysicalSize is a size in hardware pixels.
type PhysicalSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToLogical converts the size to logical units using the given scale factor.
func (s PhysicalSize) ToLogical(scaleFactor float64) LogicalSize {
	return LogicalSize{
		Width:  float64(s.Width) / scaleFactor,
		Height: float64(s.Height) / scaleFactor,
	}
}

// LogicalSize is a size in scale-independent units.
type LogicalSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToPhysical converts the size to hardware pixels using the given scale
// factor, rounding to the nearest pixel.
func (s LogicalSize) ToPhysical(scaleFactor float64) PhysicalSize {
	return PhysicalSize{
		Width:  int(math.Round(s.Width * scaleFactor)),
		Height: int(math.Round(s.Height * scaleFactor)),
	}
}

// PhysicalPosition is a position in hardware pixels.
type PhysicalPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToLogical converts the position to logical units using the given scale factor.
func (p PhysicalPosition) ToLogical(scaleFactor float64) LogicalPosition {
	return LogicalPosition{
		X: float64(p.X) / scaleFactor,
		Y: float64(p.Y) / scaleFactor,
	}
}

// LogicalPosition is a position in scale-independent units.
type LogicalPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPhysical converts the position to hardware pixels using the given scale
// factor, rounding to the nearest pixel.
func (p LogicalPosition) ToPhysical(scaleFactor float64) PhysicalPosition {
	return PhysicalPosition{
		X: int(math.Round(p.X * scaleFactor)),
		Y: int(math.Round(p.Y * scaleFactor)),
	}
}

// Size is a logical or physical size. Only LogicalSize and PhysicalSize
// implement it; a nil Size fails encoding before any host traffic.
type Size interface {
	sizeKind() Kind
}

func (LogicalSize) sizeKind() Kind  { return Logical }
func (PhysicalSize) sizeKind() Kind { return Physical }

// Position is a logical or physical position. Only LogicalPosition and
// PhysicalPosition implement it.
type Position interface {
	positionKind() Kind
}

func (LogicalPosition) positionKind() Kind  { return Logical }
func (PhysicalPosition) positionKind() Kind { return Physical }

// Tagged is the wire representation of a Size or Position: the discriminant
// plus the raw value.
type Tagged struct {
	Type Kind `json:"type"`
	Data any  `json:"data"`
}

// EncodeSize validates a size and wraps it in its tagged wire form.
func EncodeSize(s Size) (Tagged, error) {
	if s == nil {
		return Tagged{}, ErrInvalidSize
	}
	switch s.sizeKind() {
	case Logical, Physical:
		return Tagged{Type: s.sizeKind(), Data: s}, nil
	default:
		return Tagged{}, ErrInvalidSize
	}
}

// EncodePosition validates a position and wraps it in its tagged wire form.
func EncodePosition(p Position) (Tagged, error) {
	if p == nil {
		return Tagged{}, ErrInvalidPosition
	}
	switch p.positionKind() {
	case Logical, Physical:
		return Tagged{Type: p.positionKind(), Data: p}, nil
	default:
		return Tagged{}, ErrInvalidPosition
	}
}
