package domain

import (
	"bytes"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Value is a decoded search value: a string, a float64, a bool or a []Value
// holding those scalars.
type Value = any

// Search is an insertion-ordered mapping of query keys to values.
// The zero value is an empty, ready to use mapping.
type Search struct {
	keys   []string
	values map[string]Value
}

// maxExactInt is the largest integer magnitude a float64 holds exactly.
// Larger integers are kept as their decimal string.
const maxExactInt = 1 << 53

var numberLiteral = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// NewSearch builds a Search from alternating key/value pairs.
func NewSearch(pairs ...any) (Search, error) {
	var s Search
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		if err := s.Set(key, pairs[i+1]); err != nil {
			return Search{}, err
		}
	}
	return s, nil
}

// Set stores v under key, keeping the key's original position if it already
// exists. A nil value removes the key. Empty keys are rejected since they
// cannot be encoded.
func (s *Search) Set(key string, v any) error {
	if key == "" {
		return ErrEmptySearchKey
	}
	value, err := NormalizeValue(key, v)
	if err != nil {
		return err
	}
	if value == nil {
		s.Delete(key)
		return nil
	}
	s.put(key, value)
	return nil
}

func (s *Search) put(key string, v Value) {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// add appends v to key, turning a repeated key into a list.
func (s *Search) add(key string, v Value) {
	existing, ok := s.values[key]
	if !ok {
		s.put(key, v)
		return
	}
	if list, isList := existing.([]Value); isList {
		s.values[key] = append(list, v)
		return
	}
	s.values[key] = []Value{existing, v}
}

// Get returns the value stored under key.
func (s Search) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Delete removes key.
func (s *Search) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s Search) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s Search) Len() int {
	return len(s.keys)
}

// Clone returns a copy that can be modified independently.
func (s Search) Clone() Search {
	c := Search{keys: append([]string(nil), s.keys...)}
	if s.values != nil {
		c.values = make(map[string]Value, len(s.values))
		for k, v := range s.values {
			if list, ok := v.([]Value); ok {
				v = append([]Value(nil), list...)
			}
			c.values[k] = v
		}
	}
	return c
}

// Params copies the mapping into a Params map. Lists are copied too.
func (s Search) Params() Params {
	params := make(Params, len(s.keys))
	for _, k := range s.keys {
		v := s.values[k]
		if list, ok := v.([]Value); ok {
			v = append([]Value(nil), list...)
		}
		params[k] = v
	}
	return params
}

// Equal reports whether both mappings hold the same keys, in the same order,
// with the same values.
func (s Search) Equal(other Search) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for i, k := range s.keys {
		if other.keys[i] != k {
			return false
		}
		if !reflect.DeepEqual(s.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as an object, preserving key order.
func (s Search) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeSearch serializes s into a query string without the leading "?".
// Lists repeat their key; empty strings are omitted.
func EncodeSearch(s Search) string {
	var b strings.Builder
	for _, key := range s.keys {
		switch v := s.values[key].(type) {
		case []Value:
			for _, item := range v {
				writePair(&b, key, item)
			}
		default:
			writePair(&b, key, v)
		}
	}
	return b.String()
}

func writePair(b *strings.Builder, key string, v Value) {
	text, ok := FormatValue(v)
	if !ok || text == "" || key == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(text))
}

// DecodeSearch parses a query string. Entries that cannot be unescaped are
// dropped instead of failing the whole decode.
func DecodeSearch(query string) Search {
	var s Search
	query = strings.TrimPrefix(query, "?")
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		text, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		s.add(key, ParseValue(text))
	}
	return s
}

// ParseValue turns the textual form of a value back into its typed form.
func ParseValue(text string) Value {
	switch text {
	case "true":
		return true
	case "false":
		return false
	}
	if numberLiteral.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}
	return text
}

// FormatValue returns the textual form of a scalar value.
func FormatValue(v Value) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// NormalizeValue converts v into a Value: named string/bool types become
// their base type, every numeric type becomes float64 and slices become
// []Value. Integers a float64 cannot hold exactly become their decimal
// string. A nil v yields a nil Value. Anything else is an
// *InvalidParamTypeError.
func NormalizeValue(key string, v any) (Value, error) {
	if v == nil {
		return nil, nil
	}
	if scalar, ok := normalizeScalar(v); ok {
		return scalar, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &InvalidParamTypeError{Param: key, Value: v}
	}

	list := make([]Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if item == nil {
			continue
		}
		scalar, ok := normalizeScalar(item)
		if !ok {
			return nil, &InvalidParamTypeError{Param: key, Value: v}
		}
		list = append(list, scalar)
	}
	return list, nil
}

func normalizeScalar(v any) (Value, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n > maxExactInt || n < -maxExactInt {
			return strconv.FormatInt(n, 10), true
		}
		return float64(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		if n > maxExactInt {
			return strconv.FormatUint(n, 10), true
		}
		return float64(n), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	}
	return nil, false
}
