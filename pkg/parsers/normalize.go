package parsers

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// The helpers below are total: every input shape maps to a defined output,
// so the parser never has to fail on a field of the wrong type.

type orderedMapping = orderedmap.OrderedMap[string, any]

// asMapping returns v as a string-keyed mapping. Decoders hand back an
// ordered map, map[string]any or map[any]any depending on how they were
// configured and the key types they saw.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case *orderedMapping:
		if m == nil {
			return nil, false
		}
		out := make(map[string]any, m.Len())
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for key, value := range m {
			out[toText(key)] = value
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for key, value := range m {
			out[key] = value
		}
		return out, true
	}
	return nil, false
}

// asList returns v as a sequence when it is one.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

type entry struct {
	key   string
	value any
}

// mappingEntries lists v's pairs in document order when v is an ordered
// map. Plain Go maps carry no order, so their keys are sorted.
func mappingEntries(v any) ([]entry, bool) {
	if m, ok := v.(*orderedMapping); ok && m != nil {
		entries := make([]entry, 0, m.Len())
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			entries = append(entries, entry{key: pair.Key, value: pair.Value})
		}
		return entries, true
	}
	m, ok := asMapping(v)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry{key: key, value: m[key]})
	}
	return entries, true
}

// isBlank treats nil, empty strings, empty collections, false and numeric
// zero as absent.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	}
	if l, ok := asList(v); ok {
		return len(l) == 0
	}
	if m, ok := asMapping(v); ok {
		return len(m) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

// firstPresent returns the first value that is not blank, or nil.
func firstPresent(values ...any) any {
	for _, v := range values {
		if !isBlank(v) {
			return v
		}
	}
	return nil
}

// toText coerces a scalar to a string. Non-scalars fall back to their
// default formatting.
func toText(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(plain(v))
}

// plain replaces ordered maps with Go maps so fmt prints their contents.
func plain(v any) any {
	if l, ok := asList(v); ok {
		out := make([]any, len(l))
		for i, item := range l {
			out[i] = plain(item)
		}
		return out
	}
	if m, ok := asMapping(v); ok {
		out := make(map[string]any, len(m))
		for key, value := range m {
			out[key] = plain(value)
		}
		return out
	}
	return v
}

// toStringMap coerces a mapping's keys and values to strings. Anything that
// is not a mapping yields an empty map.
func toStringMap(v any) map[string]string {
	m, ok := asMapping(v)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for key, value := range m {
		out[key] = toText(value)
	}
	return out
}

// normalizeTasks turns an absent, single or list-valued task field into a list.
func normalizeTasks(v any) []any {
	if v == nil {
		return nil
	}
	if l, ok := asList(v); ok {
		return l
	}
	return []any{v}
}

// normalizeCommands turns a script field into an ordered command list.
func normalizeCommands(v any) []string {
	if v == nil {
		return []string{placeholderCommand}
	}
	if s, ok := v.(string); ok {
		return []string{s}
	}
	if l, ok := asList(v); ok {
		commands := make([]string, 0, len(l))
		for _, item := range l {
			commands = append(commands, toText(item))
		}
		if len(commands) == 0 {
			return []string{placeholderCommand}
		}
		return commands
	}
	return []string{toText(v)}
}

// toTextList coerces every element of a sequence; non-sequences yield nil.
func toTextList(v any) []string {
	l, ok := asList(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, toText(item))
	}
	return out
}
