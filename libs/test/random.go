// Package test provides utilities for testing. Do not import this into non-test code.
package test

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// RandomString return a random alphanumeric string with length 10.
func RandomString() string {
	return RandomStringWithLen(10)
}

// RandomStringWithLen returns a random alphanumeric string with a specified length.
func RandomStringWithLen(length int) string {
	s := make([]rune, length)
	for i := range s {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		s[i] = letters[n.Int64()]
	}
	return string(s)
}

// RandomEmail returns a random, well formed email address.
func RandomEmail() string {
	return fmt.Sprintf("%s@%s.com", RandomStringWithLen(8), RandomStringWithLen(6))
}

// RandomIdentifier returns a random string that starts with a letter and
// contains only letters, digits and underscores.
func RandomIdentifier() string {
	return "k_" + RandomStringWithLen(8)
}
