package clients

import (
	"errors"
	"fmt"

	errorutils "github.com/chapa-go/chapa/libs/errors"
)

var (
	// ErrUnableToDecode unable to decode body
	ErrUnableToDecode = "unable to decode response"
	// ErrProtocolError the endpoint answered with a non-2xx status
	ErrProtocolError = "protocol error"
)

// HTTPState captures the state of the response to be read by lower fns in the stack
type HTTPState struct {
	Status int
	Path   string
	Body   interface{}
}

// NewHTTPError creates a new errors.ErrorBundle with an HTTPState wrapping the status, path and v.
func NewHTTPError(err error, path, message string, status int, v interface{}) error {
	return errorutils.New(err, message, HTTPState{
		Status: status,
		Path:   path,
		Body:   v,
	})
}

// UnwrapHTTPState returns the HTTPState carried by the first error bundle in the chain of err
func UnwrapHTTPState(err error) (*HTTPState, error) {
	var bundle *errorutils.ErrorBundle
	if errors.As(err, &bundle) {
		if state, ok := bundle.Data().(HTTPState); ok {
			return &state, nil
		}
	}
	return nil, fmt.Errorf("error unwrapping http state for error %w", err)
}
