package pin

import (
	"fmt"
	"strings"
)

// Type classifies the electrical role of a pin.
type Type int

const (
	Unknown Type = iota
	Primary
	Secondary
	PowerInput
	PowerOutput
	Ground
	Input
	Output
)

var typeNames = [...]string{
	Unknown:     "unknown",
	Primary:     "primary",
	Secondary:   "secondary",
	PowerInput:  "power_input",
	PowerOutput: "power_output",
	Ground:      "ground",
	Input:       "input",
	Output:      "output",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// IsPower reports whether the type can act as a voltage well.
func (t Type) IsPower() bool {
	return t == PowerInput || t == PowerOutput
}

// ParseType converts a declaration keyword such as "power_input" into a Type.
// Matching is case-insensitive; an empty string yields Unknown.
func ParseType(s string) (Type, error) {
	if s == "" {
		return Unknown, nil
	}
	want := strings.ToLower(s)
	for i, name := range typeNames {
		if name == want {
			return Type(i), nil
		}
	}
	return Unknown, fmt.Errorf("pin: unknown pin type %q: %w", s, ErrConfiguration)
}

// Direction records which way a pin was wired by a connect statement.
type Direction int

const (
	DirUnknown Direction = iota
	DirIn
	DirOut
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	default:
		return "unknown"
	}
}

// Opposite returns the reverse direction. DirUnknown maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case DirIn:
		return DirOut
	case DirOut:
		return DirIn
	default:
		return DirUnknown
	}
}

// ParseDirection converts "in", "out" or "" (unknown) into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "unknown":
		return DirUnknown, nil
	case "in":
		return DirIn, nil
	case "out":
		return DirOut, nil
	}
	return DirUnknown, fmt.Errorf("pin: unknown direction %q: %w", s, ErrConfiguration)
}
