package watch

import "errors"

// Errors reported by store operations. User-input and precondition failures
// are detected before any backend request is issued.
var (
	// ErrEmptyExpression is returned when an empty expression is added or edited in.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrNotStopped is returned when an operation requires a paused debuggee.
	ErrNotStopped = errors.New("debug session is not stopped")

	// ErrNotFound is returned when no watched expression matches the given key.
	ErrNotFound = errors.New("expression not found")

	// ErrNotAddressable is returned when a variable has no evaluate name to copy or re-address.
	ErrNotAddressable = errors.New("variable has no evaluate name")

	// ErrSetExpressionUnsupported is returned when the adapter lacks the setExpression capability.
	ErrSetExpressionUnsupported = errors.New("adapter does not support setExpression")
)
