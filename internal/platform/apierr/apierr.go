package apierr

import "fmt"

// Error is the typed API error carried from services up to the HTTP layer.
// Code is a stable machine-readable identifier; Status is the HTTP status
// the handler should respond with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Stable codes for the recommendation surface.
const (
	CodeGraphUnavailable      = "graph_unavailable"
	CodeGenerationUnavailable = "generation_unavailable"
	CodeInsufficientData      = "insufficient_data"
	CodeInsufficientHistory   = "insufficient_history"
)
