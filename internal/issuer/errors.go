package issuer

import "errors"

var (
	ErrNotEditable = errors.New("issuer: form is not editable in this state")
	ErrNoLink      = errors.New("issuer: no link to copy")
)

// ValidationError blocks a submission locally. Message is already localized.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

// TransportError wraps a failed issuance call. Message is already localized.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return "issuance failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
