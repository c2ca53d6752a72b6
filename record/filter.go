package record

// RemoveKeys returns new records with every key in keys stripped.
// Keys missing from a record are ignored. The input records are not modified;
// nil elements stay nil.
func RemoveKeys(records []*Record, keys ...string) []*Record {
	drop := keySet(keys)
	return project(records, func(key string) bool {
		_, ok := drop[key]
		return !ok
	})
}

// KeepKeys returns new records holding only the keys listed in keys, in the
// order they appear in each record. Listed keys a record lacks are not added.
func KeepKeys(records []*Record, keys ...string) []*Record {
	keep := keySet(keys)
	return project(records, func(key string) bool {
		_, ok := keep[key]
		return ok
	})
}

func project(records []*Record, include func(string) bool) []*Record {
	result := make([]*Record, len(records))
	for i, r := range records {
		if r == nil {
			continue
		}
		out := New()
		for k, v := range r.All() {
			if include(k) {
				out.Set(k, v)
			}
		}
		result[i] = out
	}
	return result
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
