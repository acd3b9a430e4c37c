package controller

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation marks the error as client-side for diagnostics.
func (e *ValidationError) Validation() bool { return true }
