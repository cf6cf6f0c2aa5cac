package sceneflow

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Sentinel errors for common conditions.
var (
	// ErrSceneNotFound indicates an identifier could not be resolved.
	ErrSceneNotFound = router.ErrSceneNotFound

	// ErrStackBottom indicates a pop was attempted on the last remaining scene.
	ErrStackBottom = router.ErrStackBottom

	// ErrLoadPending indicates an async navigation was requested while
	// another load is still pending.
	ErrLoadPending = errors.New("a scene load is already pending")

	// ErrBusy indicates a navigation was requested while another one is
	// still playing its transitions.
	ErrBusy = errors.New("a scene transition is in progress")

	// ErrLoadCancelled indicates a pending load was cancelled.
	// This is a normal flow control error, not a failure.
	ErrLoadCancelled = errors.New("scene load cancelled")
)

// Code classifies navigation failures.
type Code int

const (
	CodeOK                Code = iota
	CodeSceneNotFound          // Identifier does not resolve
	CodeInstantiateFailed      // Resource resolved but could not be instantiated
	CodeLoadFailed             // Async load or resource load failed
	CodeLoadCancelled          // Async load was cancelled
	CodeStackBottom            // Pop on the last remaining scene
	CodeLoadPending            // Second async request while one is pending
	CodeBusy                   // Navigation requested mid-transition
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeSceneNotFound:
		return "scene_not_found"
	case CodeInstantiateFailed:
		return "instantiate_failed"
	case CodeLoadFailed:
		return "load_failed"
	case CodeLoadCancelled:
		return "load_cancelled"
	case CodeStackBottom:
		return "stack_bottom"
	case CodeLoadPending:
		return "load_pending"
	case CodeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// IsResolution reports whether the code means an identifier could not
// become a usable resource.
func (c Code) IsResolution() bool {
	return c == CodeSceneNotFound || c == CodeInstantiateFailed || c == CodeLoadFailed
}

// IsState reports whether the code means the operation was invalid for the
// current stack or load state.
func (c Code) IsState() bool {
	return c == CodeStackBottom || c == CodeLoadPending || c == CodeBusy
}

// NavigationError is returned by every rejected navigation. The stack is
// guaranteed unchanged when one is returned.
type NavigationError struct {
	Op    Operation // Operation that failed
	Scene string    // Identifier the operation targeted
	Code  Code      // Failure class
	Err   error     // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sceneflow: %s %q: %s: %v", e.Op, e.Scene, e.Code, e.Err)
	}
	return fmt.Sprintf("sceneflow: %s %q: %s", e.Op, e.Scene, e.Code)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the failure code from err. Errors that did not come from
// a navigation are classified by their sentinel; nil yields CodeOK.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var navErr *NavigationError
	if errors.As(err, &navErr) {
		return navErr.Code
	}
	return classify(err)
}

// IsResolutionError checks if err is a resolution failure.
func IsResolutionError(err error) bool {
	return err != nil && CodeOf(err).IsResolution()
}

// IsStateError checks if err is an invalid-state failure.
func IsStateError(err error) bool {
	return err != nil && CodeOf(err).IsState()
}

// IsCancelled checks if err indicates a cancelled load.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrLoadCancelled)
}

func classify(err error) Code {
	switch {
	case errors.Is(err, ErrSceneNotFound):
		return CodeSceneNotFound
	case errors.Is(err, ErrStackBottom):
		return CodeStackBottom
	case errors.Is(err, ErrLoadPending):
		return CodeLoadPending
	case errors.Is(err, ErrBusy):
		return CodeBusy
	case errors.Is(err, ErrLoadCancelled):
		return CodeLoadCancelled
	default:
		return CodeLoadFailed
	}
}
