package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrInvalidRecord is returned when input cannot be interpreted as a list of records.
var ErrInvalidRecord = errors.New("invalid record")

// ValidationError describes input rejected before any processing took place.
type ValidationError struct {
	// Index is the position of the offending element, or -1 for the input as a whole.
	Index   int
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error at index %d: %s", e.Index, e.Message)
}

// Is reports whether the target matches this error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// Field is a single key/value pair.
type Field struct {
	Key   string
	Value Value
}

// Record is an ordered mapping from string keys to scalar values.
// Keys keep the position of their first insertion.
type Record struct {
	keys   []string
	values map[string]Value
}

// New creates a record from fields. Later duplicates overwrite earlier values.
func New(fields ...Field) *Record {
	r := &Record{
		keys:   make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Of creates a record from alternating keys and Go scalars.
func Of(kv ...any) (*Record, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("odd number of arguments: %d", len(kv))
	}
	r := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("key at position %d is %T, not string", i, kv[i])
		}
		v, err := ValueOf(kv[i+1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		r.Set(key, v)
	}
	return r, nil
}

// MustOf is like Of but panics on error.
func MustOf(kv ...any) *Record {
	r, err := Of(kv...)
	if err != nil {
		panic(err)
	}
	return r
}

// Set stores v under key. An existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Lookup returns the value stored under key, or null when absent.
func (r *Record) Lookup(key string) Value {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Len returns the number of keys.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string { return slices.Clone(r.keys) }

// All iterates over the fields in insertion order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of r.
func (r *Record) Clone() *Record {
	out := &Record{
		keys:   slices.Clone(r.keys),
		values: make(map[string]Value, len(r.values)),
	}
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both records hold the same keys in the same order with equal values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !slices.Equal(r.keys, other.keys) {
		return false
	}
	for _, k := range r.keys {
		if !r.values[k].Equal(other.values[k]) {
			return false
		}
	}
	return true
}

// Map returns the record as a plain map of Go scalars.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.values[k].Interface()
	}
	return m
}

// String renders the record like {"a": 1, "b": null}.
func (r *Record) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%q: %s", k, r.values[k])
	}
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
