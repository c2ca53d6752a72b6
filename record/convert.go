package record

import (
	"fmt"
	"reflect"
	"sort"
)

// FromAny validates a dynamically typed list of records and converts it.
//
// v must be a slice or array. Each element must be a *Record or a map with
// string keys whose values are supported scalars. Validation covers the whole
// input before anything is returned. Keys of plain maps are sorted since Go
// maps carry no order.
func FromAny(v any) ([]*Record, error) {
	switch t := v.(type) {
	case []*Record:
		for i, r := range t {
			if r == nil {
				return nil, &ValidationError{Index: i, Message: "record is nil"}
			}
		}
		return t, nil
	case []map[string]any:
		out := make([]*Record, len(t))
		for i, m := range t {
			r, err := fromMap(i, m)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, &ValidationError{Index: -1, Message: fmt.Sprintf("input must be a list of records, got %T", v)}
	}

	out := make([]*Record, rv.Len())
	for i := range rv.Len() {
		elem := rv.Index(i).Interface()
		switch e := elem.(type) {
		case *Record:
			if e == nil {
				return nil, &ValidationError{Index: i, Message: "record is nil"}
			}
			out[i] = e
		case map[string]any:
			r, err := fromMap(i, e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		default:
			ev := reflect.ValueOf(elem)
			if !ev.IsValid() || ev.Kind() != reflect.Map || ev.Type().Key().Kind() != reflect.String {
				return nil, &ValidationError{Index: i, Message: fmt.Sprintf("element must be a record, got %T", elem)}
			}
			r, err := fromMapValue(i, ev)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
	}
	return out, nil
}

func fromMap(index int, m map[string]any) (*Record, error) {
	if m == nil {
		return nil, &ValidationError{Index: index, Message: "record is nil"}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := New()
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			return nil, &ValidationError{Index: index, Message: fmt.Sprintf("key %q: %v", k, err)}
		}
		r.Set(k, v)
	}
	return r, nil
}

// fromMapValue converts any map with string keys, such as map[string]int.
func fromMapValue(index int, mv reflect.Value) (*Record, error) {
	if mv.IsNil() {
		return nil, &ValidationError{Index: index, Message: "record is nil"}
	}
	m := make(map[string]any, mv.Len())
	iter := mv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return fromMap(index, m)
}
