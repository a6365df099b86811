package validators

import (
	"regexp"

	"github.com/asaskevich/govalidator"
)

const (
	identifier string = "^[A-Za-z_][A-Za-z0-9_]*$"
)

var (
	rxIdentifier = regexp.MustCompile(identifier)
)

// IsEmail returns true if the string str is a syntactically valid email address
func IsEmail(str string) bool {
	return str != "" && govalidator.IsEmail(str)
}

// IsIdentifier returns true if the string str starts with a letter or underscore
// and contains only letters, digits and underscores
func IsIdentifier(str string) bool {
	return rxIdentifier.MatchString(str)
}

// IsIn returns true if the string str is exactly one of the allowed values
func IsIn(str string, allowed ...string) bool {
	return govalidator.IsIn(str, allowed...)
}
