// Package flexlist decodes list-typed input fields that may arrive either as
// a native JSON list or as a string holding a serialized list. Multipart
// forms cannot carry nested values, so clients send lists as JSON text; JSON
// bodies send them natively. Both reach the service layer as a Value.
package flexlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	errMalformed = errors.New("malformed JSON")
	errNotList   = errors.New("expected a list")
)

// Value is a list field exactly as it arrived on the wire.
// The zero Value means the field was not supplied.
type Value struct {
	raw []byte
	set bool
}

// FromJSON wraps a raw JSON value taken from a request body.
func FromJSON(raw json.RawMessage) Value {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}
	}
	return Value{raw: raw, set: true}
}

// FromForm wraps the values of one form field. A single value is treated as
// a serialized list; repeated values are the list itself.
func FromForm(values []string) Value {
	if len(values) == 1 {
		b, _ := json.Marshal(values[0])
		return Value{raw: b, set: true}
	}
	return FromRepeated(values)
}

// FromRepeated wraps form values that are always list items, as sent under
// a "key[]" name. Items that are JSON objects are kept as objects.
func FromRepeated(values []string) Value {
	if len(values) == 0 {
		return Value{}
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
			buf.WriteString(trimmed)
			continue
		}
		b, _ := json.Marshal(v)
		buf.Write(b)
	}
	buf.WriteByte(']')
	return Value{raw: buf.Bytes(), set: true}
}

// FromStrings wraps an already-native list of strings.
func FromStrings(items []string) Value {
	b, _ := json.Marshal(items)
	return Value{raw: b, set: true}
}

// IsSet reports whether the field was supplied at all.
func (v Value) IsSet() bool { return v.set }

// Blank reports whether v is unset, null, or an empty string. Patch
// operations treat a blank field as not supplied.
func (v Value) Blank() bool {
	if !v.set {
		return true
	}
	r := gjson.ParseBytes(v.raw)
	return r.Type == gjson.Null || (r.Type == gjson.String && strings.TrimSpace(r.Str) == "")
}

// Result is the outcome of decoding one field: either Items or Err.
type Result[T any] struct {
	Items []T
	Err   error
}

// OK reports whether decoding succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Decode turns v into a list of T. An unset, null, or empty-string value
// decodes to an empty list. A single JSON object decodes to a one-element
// list. Errors name field.
func Decode[T any](field string, v Value) Result[T] {
	if !v.set {
		return Result[T]{Items: []T{}}
	}
	items, err := decode[T](v.raw, true)
	if err != nil {
		return Result[T]{Err: fmt.Errorf("invalid format for %s: %w", field, err)}
	}
	return Result[T]{Items: items}
}

func decode[T any](raw []byte, allowString bool) ([]T, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errMalformed
	}
	r := gjson.ParseBytes(raw)

	switch {
	case r.Type == gjson.Null:
		return []T{}, nil
	case r.IsArray():
		return unmarshal[T](r.Raw)
	case r.IsObject():
		return unmarshal[T]("[" + r.Raw + "]")
	case r.Type == gjson.String && allowString:
		inner := strings.TrimSpace(r.Str)
		if inner == "" {
			return []T{}, nil
		}
		return decode[T]([]byte(inner), false)
	}
	return nil, errNotList
}

func unmarshal[T any](raw string) ([]T, error) {
	out := []T{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
