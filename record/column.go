package record

// Column describes one column of the union of keys across a list of records.
type Column struct {
	Name string
	// Kind is the unified kind of all non-null cells. KindNull means every
	// cell is null; KindString is also used for incompatible mixes.
	Kind Kind
}

// Columns returns the union of keys across records in first-seen order,
// together with the kind every column unifies to. Nil records are skipped.
func Columns(records []*Record) []Column {
	var cols []Column
	index := make(map[string]int)

	for _, r := range records {
		if r == nil {
			continue
		}
		for k, v := range r.All() {
			i, ok := index[k]
			if !ok {
				i = len(cols)
				index[k] = i
				cols = append(cols, Column{Name: k, Kind: KindNull})
			}
			cols[i].Kind = Unify(cols[i].Kind, v.Kind())
		}
	}

	return cols
}

// Unify returns the kind able to hold values of both a and b.
func Unify(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	default:
		return KindString
	}
}

// Coerce converts v to kind as a column of that kind stores it.
// Ints widen to floats and every non-null value renders as text for strings.
func Coerce(v Value, kind Kind) Value {
	if v.IsNull() || v.Kind() == kind {
		return v
	}
	switch kind {
	case KindFloat:
		if f, ok := v.AsFloat(); ok {
			return Float(f)
		}
	case KindString:
		return String(v.Text())
	}
	return Null()
}
