package lint

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per diagnostic kind. A *CheckError unwraps to the
// sentinel of its kind, so callers can test with errors.Is.
var (
	ErrArityMismatch         = errors.New("arity mismatch")
	ErrLabelDrift            = errors.New("label drift")
	ErrRankMismatch          = errors.New("rank mismatch")
	ErrSizeMismatch          = errors.New("size mismatch")
	ErrUnrecognizedDirective = errors.New("unrecognized directive")
	ErrMalformedReference    = errors.New("malformed reference")

	// ErrInvalidDirectiveValue is returned when a recognized directive
	// receives a value of the wrong type. It is not policy-governed.
	ErrInvalidDirectiveValue = errors.New("invalid directive value")
)

// Err returns the sentinel error for the kind.
func (k Kind) Err() error {
	switch k {
	case ArityMismatch:
		return ErrArityMismatch
	case LabelDrift:
		return ErrLabelDrift
	case RankMismatch:
		return ErrRankMismatch
	case SizeMismatch:
		return ErrSizeMismatch
	case UnrecognizedDirective:
		return ErrUnrecognizedDirective
	case MalformedReference:
		return ErrMalformedReference
	default:
		return nil
	}
}

// CheckError is the hard error raised when ThrowOnError is set.
type CheckError struct {
	Diagnostic Diagnostic
}

func (e *CheckError) Error() string {
	return e.Diagnostic.String()
}

// Unwrap returns the kind sentinel.
func (e *CheckError) Unwrap() error {
	return e.Diagnostic.Kind.Err()
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedReference, fmt.Sprintf(format, args...))
}
