package check

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/c360/agentkit/errors"
)

// Handler is the callable capability an item dispatches to. The returned
// value is passed back to the host agent unchanged; errors propagate to the
// caller unmodified.
type Handler func(req *Request) (any, error)

// ItemConfig describes an item registration. It replaces positional
// constructor parameters with a single config struct.
type ItemConfig struct {
	Key     string  // Item key, required
	Flags   int     // Host agent item flags bitmask
	Handler Handler // Handler invoked for matching requests, required
	// TestParam optionally carries the parameters used when the host agent
	// runs the item in test mode. A slice is stringified element-wise and
	// joined with ","; a scalar is stringified directly.
	TestParam any
}

// Item is a registered check with a dispatch key and handler. Items are
// immutable after construction and do not change behavior over their
// lifetime.
type Item struct {
	key       string
	flags     int
	handler   Handler
	testParam string
}

// NewItem constructs an item from its configuration. Construction fails
// with a configuration error when the key or handler is missing.
func NewItem(cfg ItemConfig) (*Item, error) {
	if cfg.Key == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidItem, "Item", "NewItem", "key validation")
	}
	if cfg.Handler == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidItem, "Item", "NewItem", "handler validation")
	}

	return &Item{
		key:       cfg.Key,
		flags:     cfg.Flags,
		handler:   cfg.Handler,
		testParam: joinTestParam(cfg.TestParam),
	}, nil
}

// Key returns the item's dispatch key.
func (i *Item) Key() string {
	return i.key
}

// Flags returns the host agent item flags bitmask.
func (i *Item) Flags() int {
	return i.flags
}

// Handler returns the item's handler capability.
func (i *Item) Handler() Handler {
	return i.handler
}

// TestParam returns the joined test-mode parameter string. Empty when no
// test parameters were supplied.
func (i *Item) TestParam() string {
	return i.testParam
}

// String returns the item key.
func (i *Item) String() string {
	return i.key
}

// joinTestParam flattens the test parameter value into a single string.
// Sequences are stringified element-wise and joined with ","; scalars are
// stringified directly; nil yields the empty string.
func joinTestParam(v any) string {
	switch tp := v.(type) {
	case nil:
		return ""
	case string:
		return tp
	case []string:
		return strings.Join(tp, ",")
	case []any:
		parts := make([]string, len(tp))
		for i, elem := range tp {
			parts[i] = fmt.Sprint(elem)
		}
		return strings.Join(parts, ",")
	}

	// Other slice and array shapes are still sequences.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}

	return fmt.Sprint(v)
}
