// Package picker models the staged color selection used by color picker
// controls
//
// A Selection holds two values: the in-progress color, updated live while
// the user drags the picker or edits the hex field, and the saved color,
// which only changes when the user explicitly confirms. Closing without
// confirming discards the staged value
package picker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Selection stages an in-progress color against the last saved one
type Selection struct {
	current string
	saved   string
	open    bool
}

// MaxHexLength caps hex input at "#RRGGBB". Beyond the length cap, values
// are not validated; malformed colors are the caller's concern
const MaxHexLength = 7

// ErrInvalidHex is returned when a hex color cannot be parsed
var ErrInvalidHex = errors.New("invalid hex color")

// New creates a selection with the given initial color
func New(initial string) *Selection {
	return &Selection{
		current: initial,
		saved:   initial,
	}
}

// Open shows the picker, staging from the last saved color
func (s *Selection) Open() {
	s.current = s.saved
	s.open = true
}

// IsOpen reports whether the picker is showing
func (s *Selection) IsOpen() bool {
	return s.open
}

// Preview updates the in-progress color without committing it. Input
// longer than MaxHexLength is truncated
func (s *Selection) Preview(hex string) {
	if len(hex) > MaxHexLength {
		hex = hex[:MaxHexLength]
	}
	s.current = hex
}

// Current returns the in-progress color
func (s *Selection) Current() string {
	return s.current
}

// Saved returns the last committed color
func (s *Selection) Saved() string {
	return s.saved
}

// Confirm commits the in-progress color: the save callback is invoked
// exactly once with the staged value, the saved color is updated, and the
// picker closes
func (s *Selection) Confirm(save func(string)) {
	if save != nil {
		save(s.current)
	}
	s.saved = s.current
	s.open = false
}

// Close dismisses the picker, discarding the staged value
func (s *Selection) Close() {
	s.current = s.saved
	s.open = false
}

// ParseHex parses "#RGB" or "#RRGGBB" colors, with or without the leading
// hash
func ParseHex(hex string) (r, g, b uint8, err error) {
	clean := strings.TrimPrefix(hex, "#")
	switch len(clean) {
	case 3:
		clean = string([]byte{
			clean[0], clean[0], clean[1], clean[1], clean[2], clean[2],
		})
	case 6:
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	v, perr := strconv.ParseUint(clean, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// ContrastColor picks the legible foreground for the given background:
// black for light backgrounds, white for dark ones. Unparseable
// backgrounds get a black foreground
func ContrastColor(background string) string {
	r, g, b, err := ParseHex(background)
	if err != nil {
		return "#000000"
	}

	// YIQ perceived brightness
	yiq := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}
