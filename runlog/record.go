// Package runlog models the loosely-typed run records uploaded by the game
// client. A record is a string-keyed map of JSON primitives; every field is
// optional and defensively typed, so access goes through the accessors here
// instead of scattered ad hoc defaults.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Record is one run record as decoded from JSON.
type Record map[string]any

// Has reports whether the key is present at all, regardless of value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Str returns the string value for key. The second result is false when the
// key is absent or holds a non-string.
func (r Record) Str(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the boolean value for key, defaulting to false when the key is
// absent or not a boolean.
func (r Record) Bool(key string) bool {
	v, ok := r[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Float returns the numeric value for key. JSON numbers decode as float64;
// the second result is false for absent or non-numeric values.
func (r Record) Float(key string) (float64, bool) {
	return AsNumber(r[key])
}

// Int returns the numeric value for key truncated to int.
func (r Record) Int(key string) (int, bool) {
	f, ok := r.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// List returns the slice value for key. The second result is false when the
// key is absent or holds a non-slice.
func (r Record) List(key string) ([]any, bool) {
	v, ok := r[key]
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// StringList returns the slice value for key with every element coerced to a
// string. Non-string elements are dropped; the skipped count is returned so
// callers can log them.
func (r Record) StringList(key string) (values []string, skipped int) {
	list, ok := r.List(key)
	if !ok {
		return nil, 0
	}
	values = make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			skipped++
			continue
		}
		values = append(values, s)
	}
	return values, skipped
}

// Entries returns the slice value for key with every element converted to a
// Record. Non-mapping elements are dropped and counted.
func (r Record) Entries(key string) (entries []Record, skipped int) {
	list, ok := r.List(key)
	if !ok {
		return nil, 0
	}
	entries = make([]Record, 0, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, Record(m))
	}
	return entries, skipped
}

// ID returns the record's play id, generating a random UUID when the field
// is absent so every record can be tracked through the pipeline.
func (r Record) ID() string {
	if id, ok := r.Str("play_id"); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// AsNumber coerces a decoded JSON value to float64. Run files are sloppy
// about int vs float and some clients serialize amounts as strings, so all
// three shapes are accepted.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsFloor coerces a decoded JSON value to a floor number.
func AsFloor(v any) (int, bool) {
	f, ok := AsNumber(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ParseFile reads one log file. Files hold either a JSON array of
// {"event": {...}} wrappers or a single wrapper object; both shapes are
// accepted. Wrappers without a mapping under "event" are counted as skipped
// rather than failing the file.
func ParseFile(path string) (records []Record, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read log file: %w", err)
	}
	if len(data) == 0 {
		return nil, 0, nil
	}
	return Parse(data)
}

// Parse decodes log file content. See ParseFile for the accepted shapes.
func Parse(data []byte) (records []Record, skipped int, err error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to decode log content: %w", err)
	}

	var wrappers []any
	switch v := decoded.(type) {
	case []any:
		wrappers = v
	case map[string]any:
		wrappers = []any{v}
	default:
		return nil, 0, fmt.Errorf("expected a log array or object, got %T", decoded)
	}

	records = make([]Record, 0, len(wrappers))
	for _, w := range wrappers {
		wrapper, ok := w.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		event, ok := wrapper["event"].(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, Record(event))
	}
	return records, skipped, nil
}
