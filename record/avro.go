package record

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/linkedin/goavro/v2"
)

// AvroRecordName is the name of the Avro record type written by WriteAvro.
const AvroRecordName = "row"

var avroName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type avroField struct {
	Name    string `json:"name"`
	Type    any    `json:"type"`
	Default any    `json:"default"`
}

type avroSchema struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Fields []avroField `json:"fields"`
}

// avroTypeName maps a column kind to its Avro primitive.
func avroTypeName(k Kind) string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "long"
	case KindFloat:
		return "double"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// AvroSchema builds the Avro schema for records. Every field is a union with
// null so that missing keys can be represented.
func AvroSchema(records []*Record) (string, []Column, error) {
	cols := Columns(records)
	schema := avroSchema{
		Type:   "record",
		Name:   AvroRecordName,
		Fields: make([]avroField, 0, len(cols)),
	}

	for _, c := range cols {
		if !avroName.MatchString(c.Name) {
			return "", nil, fmt.Errorf("column %q is not a valid avro field name", c.Name)
		}
		var typ any = "null"
		if c.Kind != KindNull {
			typ = []string{"null", avroTypeName(c.Kind)}
		}
		schema.Fields = append(schema.Fields, avroField{Name: c.Name, Type: typ})
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode avro schema: %w", err)
	}
	return string(data), cols, nil
}

// WriteAvro writes records to w as a deflate-compressed Avro object container file.
func WriteAvro(w io.Writer, records []*Record) error {
	for i, r := range records {
		if r == nil {
			return &ValidationError{Index: i, Message: "record is nil"}
		}
	}

	schema, cols, err := AvroSchema(records)
	if err != nil {
		return err
	}

	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return fmt.Errorf("failed to create avro codec: %w", err)
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: "deflate",
	})
	if err != nil {
		return fmt.Errorf("failed to create OCF writer: %w", err)
	}

	batch := make([]any, 0, len(records))
	for _, r := range records {
		datum := make(map[string]any, len(cols))
		for _, c := range cols {
			v := Coerce(r.Lookup(c.Name), c.Kind)
			if v.IsNull() {
				datum[c.Name] = nil
				continue
			}
			datum[c.Name] = goavro.Union(avroTypeName(c.Kind), v.Interface())
		}
		batch = append(batch, datum)
	}

	if len(batch) == 0 {
		return nil
	}
	if err := ocf.Append(batch); err != nil {
		return fmt.Errorf("failed to append avro records: %w", err)
	}
	return nil
}

// ReadAvro reads records from an Avro object container file. Field order
// follows the writer schema; null fields are kept as null values.
func ReadAvro(r io.Reader) ([]*Record, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF reader: %w", err)
	}

	var schema avroSchema
	if err := json.Unmarshal([]byte(ocf.Codec().Schema()), &schema); err != nil {
		return nil, fmt.Errorf("failed to parse avro schema: %w", err)
	}

	var records []*Record
	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read avro record: %w", err)
		}
		fields, ok := datum.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected avro datum %T", datum)
		}

		rec := New()
		for _, f := range schema.Fields {
			v, err := ValueOf(unwrapUnion(fields[f.Name]))
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			rec.Set(f.Name, v)
		}
		records = append(records, rec)
	}
	if err := ocf.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan avro records: %w", err)
	}

	return records, nil
}

// unwrapUnion extracts the branch value of a decoded union.
func unwrapUnion(v any) any {
	if m, ok := v.(map[string]any); ok && len(m) == 1 {
		for _, inner := range m {
			return inner
		}
	}
	return v
}
