package chapa

import (
	"errors"

	errorutils "github.com/chapa-go/chapa/libs/errors"
)

var (
	// ErrConfiguration - the client cannot be built from the given config
	ErrConfiguration = errors.New("invalid chapa configuration")
	// ErrFieldNotAllowed - the payload carries a field chapa does not accept
	ErrFieldNotAllowed = errors.New("field not allowed")
	// ErrMissingRequiredField - a required payload field is absent
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidEmail - the email is not a valid address
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidCurrency - the currency is not supported
	ErrInvalidCurrency = errors.New("invalid currency")
	// ErrInvalidCustomizationKey - a customization key is not an identifier
	ErrInvalidCustomizationKey = errors.New("invalid customization key")
	// ErrInvalidArgument - an argument is empty or cannot be encoded
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRequestFailed - the transport failed to deliver the request or got a non-2xx response
	ErrRequestFailed = errors.New("request failed")
)

var validationErrors = []error{
	ErrFieldNotAllowed,
	ErrMissingRequiredField,
	ErrInvalidEmail,
	ErrInvalidCurrency,
	ErrInvalidCustomizationKey,
	ErrInvalidArgument,
}

// FieldState is the data carried by configuration and validation errors
type FieldState struct {
	Field string `json:"field"`
}

func newFieldError(cause error, field, message string) error {
	return errorutils.New(cause, message, FieldState{Field: field})
}

// ErrorClass discriminates the errors returned by the client
type ErrorClass int

const (
	// ClassNone - no error
	ClassNone ErrorClass = iota
	// ClassConfiguration - the client could not be built
	ClassConfiguration
	// ClassValidation - the input was rejected before any request was sent
	ClassValidation
	// ClassTransport - the request was sent and failed, a failure Result accompanies the error
	ClassTransport
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassConfiguration:
		return "configuration"
	case ClassValidation:
		return "validation"
	default:
		return "transport"
	}
}

// Classify returns the class of an error returned by this package.
// Errors of unknown origin are reported as transport errors.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, ErrConfiguration) {
		return ClassConfiguration
	}
	if errors.Is(err, ErrRequestFailed) {
		return ClassTransport
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return ClassValidation
		}
	}
	return ClassTransport
}

// FieldOf returns the payload field an error refers to, if any
func FieldOf(err error) string {
	var bundle *errorutils.ErrorBundle
	if errors.As(err, &bundle) {
		if state, ok := bundle.Data().(FieldState); ok {
			return state.Field
		}
	}
	return ""
}
