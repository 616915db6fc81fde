package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error by how the viewer must react to it.
type Kind int

const (
	// KindFatalInit covers adapter, device, surface, window, config and shader failures at startup.
	// The process aborts before the frame loop starts.
	KindFatalInit Kind = iota

	// KindFatalRuntime covers unrecoverable failures while the loop runs, such as running
	// out of memory while acquiring a surface image. The loop stops.
	KindFatalRuntime

	// KindRecoverableSurface is a lost surface. The surface and depth buffer are reconfigured
	// and the frame is retried on the next iteration.
	KindRecoverableSurface

	// KindTransientSurface is an outdated surface or an acquire timeout. The frame is skipped.
	KindTransientSurface

	// KindAssetLoad is a missing or malformed model or texture.
	KindAssetLoad
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFatalInit:
		return "FatalInit"
	case KindFatalRuntime:
		return "FatalRuntime"
	case KindRecoverableSurface:
		return "RecoverableSurface"
	case KindTransientSurface:
		return "TransientSurface"
	case KindAssetLoad:
		return "AssetLoad"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified error carrying the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause walk through a classified error.
func (e *Error) Cause() error {
	return e.Err
}

// NewError classifies err under kind. A stack trace is attached to err if it has none.
//
// Parameters:
//   - kind: the error classification
//   - op: the operation that failed, e.g. "renderer.BeginFrame"
//   - err: the underlying error
//
// Returns:
//   - *Error: the classified error
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf reports the kind of the first classified error in err's chain.
//
// Returns:
//   - Kind: the kind, valid only if ok is true
//   - bool: false when err carries no classification
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsFatal reports whether err must stop the process. Unclassified errors count as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	k, ok := KindOf(err)
	if !ok {
		return true
	}
	return k == KindFatalInit || k == KindFatalRuntime
}
