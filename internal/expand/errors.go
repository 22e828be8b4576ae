package expand

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by the typed errors below.
var (
	ErrUnknownAtom      = errors.New("atom is not in the store")
	ErrPredicatePanic   = errors.New("predicate panicked")
	ErrNilTarget        = errors.New("target is nil")
	ErrNegativeHops     = errors.New("hop count must be zero or greater")
	ErrUnknownContext   = errors.New("unknown context")
	ErrHopsNotSupported = errors.New("context does not take a hop count")
	ErrUnknownMode      = errors.New("unknown mode")
)

// InvalidTargetError reports a target that cannot be resolved against the store.
type InvalidTargetError struct {
	Target string
	Err    error
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %s: %v", e.Target, e.Err)
}

func (e *InvalidTargetError) Unwrap() error { return e.Err }

// InvalidContextError reports an out-of-domain context policy.
type InvalidContextError struct {
	Context string
	Err     error
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid context %q: %v", e.Context, e.Err)
}

func (e *InvalidContextError) Unwrap() error { return e.Err }
