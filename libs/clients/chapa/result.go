package chapa

import "fmt"

const requestFailedMessage = "Request failed"

// Payload is a request body sent to chapa
type Payload map[string]interface{}

// Result is a decoded chapa response, merged with any extra data the operation adds
type Result map[string]interface{}

// Status reports whether chapa accepted the request
func (r Result) Status() bool {
	switch v := r["status"].(type) {
	case bool:
		return v
	case string:
		return v == "success"
	default:
		return false
	}
}

// Message returns the response message
func (r Result) Message() string {
	return r.str("message")
}

// TxRef returns the transaction reference used for the request
func (r Result) TxRef() string {
	return r.str("tx_ref")
}

// ErrorDetails returns the transport error text of a failed request
func (r Result) ErrorDetails() string {
	return r.str("error_details")
}

// Data returns the data object of the response
func (r Result) Data() map[string]interface{} {
	data, _ := r["data"].(map[string]interface{})
	return data
}

func (r Result) str(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func failureResult(err error) Result {
	return Result{
		"status":        false,
		"message":       requestFailedMessage,
		"error_details": err.Error(),
	}
}
