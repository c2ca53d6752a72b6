package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSON reads a JSON array of objects into records, keeping the key
// order of each object. Values must be scalars.
func DecodeJSON(r io.Reader) ([]*Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, &ValidationError{Index: -1, Message: "input must be a JSON array of objects"}
	}

	var records []*Record
	for i := 0; dec.More(); i++ {
		rec, err := decodeObject(dec, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read json: unexpected data after array")
	}

	return records, nil
}

func decodeObject(dec *json.Decoder, index int) (*Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &ValidationError{Index: index, Message: "element must be an object"}
	}

	rec := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read json: %w", err)
		}
		key := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read json: %w", err)
		}
		if _, ok := tok.(json.Delim); ok {
			return nil, &ValidationError{Index: index, Message: fmt.Sprintf("key %q: nested values are not supported", key)}
		}
		v, err := ValueOf(tok)
		if err != nil {
			return nil, &ValidationError{Index: index, Message: fmt.Sprintf("key %q: %v", key, err)}
		}
		rec.Set(key, v)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}
	return rec, nil
}
