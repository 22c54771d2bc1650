package scene

import (
	"github.com/rotisserie/eris"

	"github.com/cybre/neon-skyline/internal/layout"
)

var (
	// ErrConfiguration marks a degenerate Config; it is the layout sentinel.
	ErrConfiguration = layout.ErrConfiguration
	// ErrAssetLoad marks a model fetch or parse failure.
	ErrAssetLoad = eris.New("asset load failed")
	// ErrAudioLoad marks a track fetch or decode failure.
	ErrAudioLoad = eris.New("audio load failed")

	ErrNotBuilt   = eris.New("scene is not built")
	ErrNotRunning = eris.New("scene is not running")
	ErrTornDown   = eris.New("scene is torn down")

	// ErrSceneActive rejects a build while another scene is still being built.
	ErrSceneActive = eris.New("another scene is active")
)

// stageError tags a wrapped cause with the sentinel of the stage that failed.
type stageError struct {
	kind  error
	cause error
}

// Stage wraps cause with a message and tags it with kind. Both
// eris.Is(err, kind) and eris.Is(err, cause) hold for the result.
func Stage(kind, cause error, format string, args ...any) error {
	if cause == nil {
		return eris.Wrapf(kind, format, args...)
	}
	return &stageError{kind: kind, cause: eris.Wrapf(cause, format, args...)}
}

func (e *stageError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *stageError) Is(target error) bool {
	return eris.Is(e.kind, target)
}

func (e *stageError) Unwrap() error {
	return e.cause
}
