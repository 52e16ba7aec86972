// pkg/buildenv/linkmode.go
package buildenv

import (
	"errors"
	"fmt"
)

// ErrInvalidLinkMode indicates an unrecognized link mode value.
var ErrInvalidLinkMode = errors.New("invalid link mode")

// LinkMode selects how the component libraries are linked into the
// final binary.
type LinkMode string

const (
	// LinkModeUnset means no mode was configured; platform defaults apply.
	LinkModeUnset LinkMode = ""
	// LinkModeStatic embeds the libraries into the output.
	LinkModeStatic LinkMode = "static"
	// LinkModeDynamic resolves the libraries at load time.
	LinkModeDynamic LinkMode = "dynamic"
)

// ParseLinkMode parses configuration text into a LinkMode. Any value other
// than "static" or "dynamic" is an error; the empty string is LinkModeUnset.
func ParseLinkMode(text string) (LinkMode, error) {
	switch text {
	case "":
		return LinkModeUnset, nil
	case "static":
		return LinkModeStatic, nil
	case "dynamic":
		return LinkModeDynamic, nil
	default:
		return LinkModeUnset, fmt.Errorf("%w %q, expected [static,dynamic]", ErrInvalidLinkMode, text)
	}
}

// IsStatic reports whether static linking was requested.
func (m LinkMode) IsStatic() bool {
	return m == LinkModeStatic
}

// String returns the configuration spelling of the mode.
func (m LinkMode) String() string {
	return string(m)
}
