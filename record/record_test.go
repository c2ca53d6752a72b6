package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		text string
	}{
		{"nil", nil, KindNull, ""},
		{"bool", true, KindBool, "true"},
		{"int", 42, KindInt, "42"},
		{"int8", int8(-3), KindInt, "-3"},
		{"uint32", uint32(7), KindInt, "7"},
		{"huge uint64", uint64(math.MaxUint64), KindFloat, "1.8446744073709552e+19"},
		{"float32", float32(1.5), KindFloat, "1.5"},
		{"float64", 2.25, KindFloat, "2.25"},
		{"string", "x", KindString, "x"},
		{"json int", json.Number("12"), KindInt, "12"},
		{"json float", json.Number("1.25"), KindFloat, "1.25"},
		{"value", Int(9), KindInt, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.Text())
		})
	}
}

func TestValueOfUnsupported(t *testing.T) {
	_, err := ValueOf([]int{1})
	assert.Error(t, err)

	_, err = ValueOf(struct{}{})
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Null().Equal(Value{}))
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Float(1)))
	assert.False(t, String("1").Equal(Int(1)))
	assert.True(t, Bool(false).Equal(Bool(false)))
}

func TestRecordOrder(t *testing.T) {
	r := New()
	r.Set("b", Int(1))
	r.Set("a", Int(2))
	r.Set("b", Int(3))

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, Int(3), r.Lookup("b"))
	assert.True(t, r.Lookup("missing").IsNull())

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRecordClone(t *testing.T) {
	r := MustOf("a", 1)
	c := r.Clone()
	c.Set("a", Int(2))
	c.Set("b", Int(3))

	assert.Equal(t, Int(1), r.Lookup("a"))
	assert.False(t, r.Has("b"))
	assert.False(t, r.Equal(c))
}

func TestOfErrors(t *testing.T) {
	_, err := Of("a")
	assert.Error(t, err)

	_, err = Of(1, 2)
	assert.Error(t, err)

	_, err = Of("a", map[string]int{})
	assert.Error(t, err)
}

func TestRecordMarshalJSON(t *testing.T) {
	r := MustOf("z", 1, "a", "x", "n", nil, "f", 1.5, "ok", true)
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","n":null,"f":1.5,"ok":true}`, string(data))
	assert.Equal(t, `{"z": 1, "a": "x", "n": null, "f": 1.5, "ok": true}`, r.String())
}

func TestRemoveKeys(t *testing.T) {
	in := []*Record{MustOf("a", 1, "b", 2)}
	out := RemoveKeys(in, "b")

	require.Len(t, out, 1)
	assert.True(t, out[0].Equal(MustOf("a", 1)))
	// input is left untouched
	assert.True(t, in[0].Equal(MustOf("a", 1, "b", 2)))
}

func TestRemoveKeysIgnoresAbsent(t *testing.T) {
	in := []*Record{MustOf("a", 1), MustOf("c", 3, "a", 4), nil}
	out := RemoveKeys(in, "a", "missing")

	require.Len(t, out, 3)
	assert.Equal(t, 0, out[0].Len())
	assert.True(t, out[1].Equal(MustOf("c", 3)))
	assert.Nil(t, out[2])
}

func TestKeepKeys(t *testing.T) {
	in := []*Record{MustOf("a", 1, "b", 2), MustOf("c", 3)}
	out := KeepKeys(in, "b", "c", "d")

	require.Len(t, out, 2)
	assert.True(t, out[0].Equal(MustOf("b", 2)))
	assert.True(t, out[1].Equal(MustOf("c", 3)))
	assert.False(t, out[0].Has("d"))
}

func TestKeepKeysPreservesRecordOrder(t *testing.T) {
	out := KeepKeys([]*Record{MustOf("x", 1, "y", 2, "z", 3)}, "z", "x")
	assert.Equal(t, []string{"x", "z"}, out[0].Keys())
}

func TestFilterProperties(t *testing.T) {
	records := []*Record{
		MustOf("a", 1, "b", "two", "c", nil),
		MustOf("b", 2.5, "d", true),
		MustOf(),
	}
	keys := []string{"b", "d"}

	removed := RemoveKeys(records, keys...)
	kept := KeepKeys(records, keys...)

	for i, r := range records {
		for _, k := range keys {
			assert.False(t, removed[i].Has(k))
		}
		for k, v := range r.All() {
			if k == "b" || k == "d" {
				got, ok := kept[i].Get(k)
				require.True(t, ok)
				assert.True(t, v.Equal(got))
				continue
			}
			got, ok := removed[i].Get(k)
			require.True(t, ok)
			assert.True(t, v.Equal(got))
			assert.False(t, kept[i].Has(k))
		}
	}

	// idempotence
	again := RemoveKeys(removed, keys...)
	for i := range removed {
		assert.True(t, removed[i].Equal(again[i]))
	}
	keptAgain := KeepKeys(kept, keys...)
	for i := range kept {
		assert.True(t, kept[i].Equal(keptAgain[i]))
	}
}

func TestColumns(t *testing.T) {
	records := []*Record{
		MustOf("a", 1, "b", nil, "c", "x"),
		MustOf("a", 2.5, "d", true, "c", 3),
		nil,
		MustOf("e", nil),
	}

	cols := Columns(records)
	assert.Equal(t, []Column{
		{Name: "a", Kind: KindFloat},
		{Name: "b", Kind: KindNull},
		{Name: "c", Kind: KindString},
		{Name: "d", Kind: KindBool},
		{Name: "e", Kind: KindNull},
	}, cols)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, Float(2), Coerce(Int(2), KindFloat))
	assert.Equal(t, String("3"), Coerce(Int(3), KindString))
	assert.Equal(t, String("true"), Coerce(Bool(true), KindString))
	assert.True(t, Coerce(Null(), KindInt).IsNull())
	assert.Equal(t, Int(1), Coerce(Int(1), KindInt))
}

func TestFromAny(t *testing.T) {
	records, err := FromAny([]any{
		map[string]any{"b": 2, "a": 1},
		MustOf("c", "x"),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a", "b"}, records[0].Keys())
	assert.True(t, records[1].Equal(MustOf("c", "x")))

	records, err = FromAny([]map[string]any{{"a": 1}})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFromAnyTypedMaps(t *testing.T) {
	type label string

	tests := []struct {
		name string
		in   any
		want *Record
	}{
		{"map of strings", []map[string]string{{"b": "y", "a": "x"}}, MustOf("a", "x", "b", "y")},
		{"map of ints", []map[string]int{{"a": 1}}, MustOf("a", 1)},
		{"map of floats in any slice", []any{map[string]float64{"a": 0.5}}, MustOf("a", 0.5)},
		{"map of strings in any slice", []any{map[string]string{"a": "x"}}, MustOf("a", "x")},
		{"named key type", []map[label]bool{{"ok": true}}, MustOf("ok", true)},
		{"named value type", []map[string]label{{"a": "x"}}, MustOf("a", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := FromAny(tt.in)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.True(t, records[0].Equal(tt.want), "got %s, want %s", records[0], tt.want)
		})
	}
}

func TestFromAnyValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		index int
	}{
		{"not a list", map[string]any{"a": 1}, -1},
		{"nil", nil, -1},
		{"string", "records", -1},
		{"non-record element", []any{map[string]any{"a": 1}, 5}, 1},
		{"nil record", []*Record{MustOf("a", 1), nil}, 1},
		{"nil map", []any{map[string]any(nil)}, 0},
		{"nested value", []any{map[string]any{"a": []int{1}}}, 0},
		{"int keys", []any{map[int]string{1: "x"}}, 0},
		{"nil typed map", []map[string]int{nil}, 0},
		{"nested typed value", []map[string][]int{{"a": {1}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.index, verr.Index)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[
		{"z": 1, "a": "x", "f": 1.5},
		{"n": null, "ok": false}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"z", "a", "f"}, records[0].Keys())
	assert.Equal(t, Int(1), records[0].Lookup("z"))
	assert.Equal(t, Float(1.5), records[0].Lookup("f"))
	assert.True(t, records[1].Lookup("n").IsNull())
	assert.True(t, records[1].Has("n"))
	assert.Equal(t, Bool(false), records[1].Lookup("ok"))
}

func TestDecodeJSONEmpty(t *testing.T) {
	records, err := DecodeJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		validation bool
	}{
		{"object", `{"a": 1}`, true},
		{"scalar element", `[{"a": 1}, 2]`, true},
		{"nested", `[{"a": {"b": 1}}]`, true},
		{"truncated", `[{"a": 1}`, false},
		{"trailing", `[] []`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.validation, errors.Is(err, ErrInvalidRecord))
		})
	}
}

func TestAvroRoundTrip(t *testing.T) {
	records := []*Record{
		MustOf("id", 1, "name", "alpha", "score", 1.5, "active", true),
		MustOf("id", 2, "score", 2, "extra", nil),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAvro(&buf, records))

	got, err := ReadAvro(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"id", "name", "score", "active", "extra"}, got[0].Keys())
	assert.Equal(t, Int(1), got[0].Lookup("id"))
	assert.Equal(t, String("alpha"), got[0].Lookup("name"))
	assert.Equal(t, Float(1.5), got[0].Lookup("score"))
	assert.Equal(t, Bool(true), got[0].Lookup("active"))
	assert.True(t, got[0].Lookup("extra").IsNull())

	assert.True(t, got[1].Lookup("name").IsNull())
	assert.Equal(t, Float(2), got[1].Lookup("score"))
}

func TestAvroInvalidFieldName(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAvro(&buf, []*Record{MustOf("bad name", 1)})
	assert.Error(t, err)
}

func TestAvroSchema(t *testing.T) {
	schema, cols, err := AvroSchema([]*Record{MustOf("a", 1, "b", nil)})
	require.NoError(t, err)
	assert.Len(t, cols, 2)
	assert.JSONEq(t, `{
		"type": "record",
		"name": "row",
		"fields": [
			{"name": "a", "type": ["null", "long"], "default": null},
			{"name": "b", "type": "null", "default": null}
		]
	}`, schema)
}
