// errors.go
package ffbuild

import (
	"errors"
	"fmt"

	"github.com/anti-social/ffbuild/pkg/buildenv"
	"github.com/anti-social/ffbuild/pkg/nativebuild"
	"github.com/anti-social/ffbuild/pkg/pkgconfig"
)

// Sentinels re-exported from the packages that raise them, so callers
// can errors.Is against the facade alone.
var (
	// ErrMissingInput indicates a required configuration input is absent
	ErrMissingInput = buildenv.ErrMissingInput

	// ErrInvalidLinkMode indicates an unrecognized link mode value
	ErrInvalidLinkMode = buildenv.ErrInvalidLinkMode

	// ErrLibraryNotFound indicates the prober could not locate a library
	ErrLibraryNotFound = pkgconfig.ErrNotFound

	// ErrStageFailed indicates a native build stage exited non-zero
	ErrStageFailed = nativebuild.ErrStageFailed

	// ErrGenerationFailed indicates binding generation could not complete
	ErrGenerationFailed = errors.New("binding generation failed")
)

// Error wraps an error with additional context
type Error struct {
	Op    string // Operation that failed
	Stage string // Pipeline stage if applicable
	Err   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
