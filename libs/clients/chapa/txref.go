package chapa

import uuid "github.com/satori/go.uuid"

// newTxRef returns a random token for an outgoing transaction reference
func newTxRef() string {
	return uuid.NewV4().String()
}
