package orchestration

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for the caller's remediation:
// re-check the id, re-pick a slot, fix the input, or retry later.
type Kind int

const (
	// KindNotFound means a referenced entity is absent.
	KindNotFound Kind = iota
	// KindConflict means the current state precludes (or already satisfies)
	// the operation.
	KindConflict
	// KindInvalidInput means the caller supplied malformed or out-of-range data.
	KindInvalidInput
	// KindUnavailable means no feasible option exists right now; the caller
	// may retry later or escalate to an operator override.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Machine-readable reason codes carried by engine errors.
const (
	ReasonCommercialHold   = "COMMERCIAL_HOLD"
	ReasonAlreadyConfirmed = "ALREADY_CONFIRMED"
	ReasonSlotFull         = "SLOT_FULL"
	ReasonSlotNotFound     = "SLOT_NOT_FOUND"
	ReasonNoDriver         = "NO_DRIVER_AVAILABLE"
	ReasonNoSlotAvailable  = "NO_SLOT_AVAILABLE"
	ReasonNoInstruction    = "NO_RETURN_INSTRUCTION"
	ReasonNoOpenDepot      = "NO_OPEN_DEPOT"
	ReasonBadTransition    = "INVALID_TRANSITION"
)

// Error is the engine's error type. All request-path failures are one of
// these; the async pipeline logs instead of returning them.
type Error struct {
	Kind   Kind
	Reason string
	msg    string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Reason, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func newErr(kind Kind, reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, msg: fmt.Sprintf(format, args...)}
}

// NotFoundErr builds a KindNotFound error.
func NotFoundErr(format string, args ...any) *Error {
	return newErr(KindNotFound, "", format, args...)
}

// ConflictErr builds a KindConflict error with a reason code.
func ConflictErr(reason, format string, args ...any) *Error {
	return newErr(KindConflict, reason, format, args...)
}

// InvalidInputErr builds a KindInvalidInput error.
func InvalidInputErr(reason, format string, args ...any) *Error {
	return newErr(KindInvalidInput, reason, format, args...)
}

// UnavailableErr builds a KindUnavailable error with a reason code.
func UnavailableErr(reason, format string, args ...any) *Error {
	return newErr(KindUnavailable, reason, format, args...)
}

// KindOf returns the Kind of err, or ok=false for non-engine errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ReasonOf returns the reason code of err, or "" for non-engine errors.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsConflict reports whether err is a KindConflict engine error.
func IsConflict(err error) bool { k, ok := KindOf(err); return ok && k == KindConflict }

// IsNotFound reports whether err is a KindNotFound engine error.
func IsNotFound(err error) bool { k, ok := KindOf(err); return ok && k == KindNotFound }

// IsUnavailable reports whether err is a KindUnavailable engine error.
func IsUnavailable(err error) bool { k, ok := KindOf(err); return ok && k == KindUnavailable }
