package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AppSiteID namespaces application-level tables that do not belong to any
// site (the site list itself).
const AppSiteID = "_app"

// Key is the primary key of a record. Composite keys are built with [NewKey].
type Key string

// NewKey joins the parts of a composite key.
func NewKey(parts ...any) Key {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('#')
		}
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case int:
			b.WriteString(strconv.Itoa(v))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return Key(b.String())
}

// TableSchema declares a table and the names of its secondary indexes.
type TableSchema struct {
	Name    string
	Indexes []string
}

// HasIndex reports whether the schema declares index.
func (s TableSchema) HasIndex(index string) bool {
	for _, name := range s.Indexes {
		if name == index {
			return true
		}
	}
	return false
}

// Record is a stored value. Indexes maps declared index names to the value
// the record is reachable under.
type Record struct {
	Key     Key
	Indexes map[string]string
	Data    []byte
}

// NewRecord encodes v as the record data.
func NewRecord(key Key, v any, indexes map[string]string) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("encode record %s: %w", key, err)
	}
	return Record{Key: key, Indexes: indexes, Data: data}, nil
}

// Decode unmarshals the record data into v.
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode record %s: %w", r.Key, err)
	}
	return nil
}
