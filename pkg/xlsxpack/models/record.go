package models

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a flat, insertion-ordered mapping of field name to value.
// A key appearing more than once resolves to its first occurrence.
type Record []Field

// R builds a Record from alternating key/value arguments. A trailing key
// without a value is stored with a nil value; non-string keys are skipped.
func R(kv ...any) Record {
	rec := make(Record, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		rec = append(rec, Field{Key: key, Value: v})
	}
	return rec
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, f := range r {
		keys = append(keys, f.Key)
	}
	return keys
}

// Section is a named group of records requested as one worksheet.
type Section struct {
	Name    string
	Records []Record
}
