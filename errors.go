package pathifier

import (
	"errors"
	"fmt"
)

// Errors reported by the core.
var (
	// ErrClipboardUnavailable means the OS clipboard could not be accessed.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	// ErrNoImage means the clipboard holds no image. It is a negative result,
	// not a failure.
	ErrNoImage = errors.New("no image on clipboard")
	// ErrInvalidPixelBuffer means a pixel payload does not match its dimensions
	// or could not be decoded.
	ErrInvalidPixelBuffer = errors.New("invalid pixel buffer")
	// ErrPersistence means a store directory or file operation failed.
	ErrPersistence = errors.New("persistence failed")
	// ErrInvalidSettings means a settings value is out of range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Stage identifies a step of a capture or copy request.
type Stage int

// Request stages.
const (
	StageIdle Stage = iota
	StageReadingClipboard
	StagePersisting
	StageWritingResult
	StageFailed
)

// String returns a human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageReadingClipboard:
		return "reading clipboard"
	case StagePersisting:
		return "persisting"
	case StageWritingResult:
		return "writing result"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError is the terminal outcome of a failed request. It names the first
// stage that failed and wraps the cause.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage tagged on err, or StageIdle if err carries none.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageIdle
}
