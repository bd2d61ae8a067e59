package lld

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/c360/agentkit/errors"
)

// Record holds the key/value attributes of one discovered entity.
type Record map[string]any

// payload is the wire shape of a discovery result.
type payload struct {
	Data []map[string]string `json:"data"`
}

// Discovery encodes records into the low-level discovery wire format:
// a UTF-8 JSON object {"data":[{"{#MACRO}":"value",...},...]}.
//
// Pairs with falsy values (empty strings, zero numbers, empty containers,
// nil, false) are filtered out, and a record with no surviving pairs is
// dropped entirely. Two distinct keys normalizing to the same macro collide
// silently; the later pair in iteration order wins for that record.
func Discovery(records []Record) (string, error) {
	out := payload{Data: make([]map[string]string, 0, len(records))}

	for _, record := range records {
		entry := make(map[string]string)
		for key, value := range record {
			if !truthy(value) {
				continue
			}
			entry[MacroName(key)] = fmt.Sprint(value)
		}
		if len(entry) > 0 {
			out.Data = append(out.Data, entry)
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", errors.WrapInvalid(err, "Discovery", "Discovery", "JSON encoding")
	}
	return string(data), nil
}

// truthy reports whether a value survives discovery filtering.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint8:
		return val != 0
	case uint16:
		return val != 0
	case uint32:
		return val != 0
	case uint64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
