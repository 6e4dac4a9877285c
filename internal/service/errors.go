package service

// ValidationError marks a failure the client can fix: a missing or malformed
// field, an out-of-range value, a forbidden status transition, or a duplicate
// registration. Controllers surface it as a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}
