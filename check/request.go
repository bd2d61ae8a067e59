package check

import (
	"fmt"
	"strings"
)

// Request describes a single incoming check invocation from the host agent:
// an item key plus its positional parameters. Requests are immutable after
// construction.
type Request struct {
	key    string
	params []string
}

// NewRequest creates a request for the given item key and parameters.
func NewRequest(key string, params ...string) *Request {
	r := &Request{key: key}
	if len(params) > 0 {
		r.params = make([]string, len(params))
		copy(r.params, params)
	}
	return r
}

// Key returns the item key this request addresses.
func (r *Request) Key() string {
	return r.key
}

// Params returns a copy of the positional parameters.
func (r *Request) Params() []string {
	if len(r.params) == 0 {
		return nil
	}
	out := make([]string, len(r.params))
	copy(out, r.params)
	return out
}

// Param returns the parameter at index i, or the empty string when the
// request carries fewer parameters. Handlers use this to read optional
// trailing parameters without bounds checks.
func (r *Request) Param(i int) string {
	if i < 0 || i >= len(r.params) {
		return ""
	}
	return r.params[i]
}

// String renders the request in key[param1,param2] form. This is a
// diagnostic representation, not a wire format.
func (r *Request) String() string {
	return fmt.Sprintf("%s[%s]", r.key, strings.Join(r.params, ","))
}
