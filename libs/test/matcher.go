package test

import (
	"fmt"
	"net/http"

	"github.com/golang/mock/gomock"
)

// RequestTo returns a matcher that matches an *http.Request with the given
// method and url path.
func RequestTo(method, path string) gomock.Matcher { return requestMatcher{method, path} }

type requestMatcher struct {
	method string
	path   string
}

func (e requestMatcher) Matches(x interface{}) bool {
	switch v := x.(type) {
	case *http.Request:
		return v.Method == e.method && v.URL.EscapedPath() == e.path
	default:
		return false
	}
}

func (e requestMatcher) String() string {
	return fmt.Sprintf("is a %s request to %v", e.method, e.path)
}
