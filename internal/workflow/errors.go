package workflow

import "fmt"

// ValidationError rejects a submission before anything is dispatched to
// storage. Operator input stays on screen for retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// AuthorizationError means the actor is not allowed to touch the step or
// ticket. The operation is aborted with no state change.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization: %s", e.Reason)
}
