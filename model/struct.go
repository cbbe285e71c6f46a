// Package model provides Struct, a navigable tree over decoded JSON.
//
// A Struct node is a mapping, a sequence or a scalar. Lookups never fail:
// a missing key or index yields a null node, so chains such as
//
//	s.Get("user").Get("address").Get("city").String()
//
// are safe on partial documents. Mapping keys keep their document order.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrNotMapping is returned when a mapping operation targets another kind.
	ErrNotMapping = errors.New("struct is not a mapping")

	// ErrMissingField is returned when deleting a key that is not present.
	ErrMissingField = errors.New("field not found")
)

// Kind is the kind of a Struct node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Struct is a node of a JSON tree.
type Struct struct {
	kind Kind

	// scalar holds the string value, or the raw text of a number.
	scalar string
	flag   bool

	keys   []string
	fields map[string]*Struct

	items []*Struct
}

// Null returns a null node.
func Null() *Struct {
	return &Struct{kind: KindNull}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Struct {
	return &Struct{kind: KindMapping, fields: make(map[string]*Struct)}
}

// Parse builds a Struct from JSON text.
func Parse(data []byte) (*Struct, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// FromValue builds a Struct from any JSON-encodable Go value.
func FromValue(v any) (*Struct, error) {
	if s, ok := v.(*Struct); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return Parse(data)
}

func fromResult(r gjson.Result) *Struct {
	switch {
	case r.IsObject():
		s := NewMapping()
		r.ForEach(func(key, value gjson.Result) bool {
			s.put(key.String(), fromResult(value))
			return true
		})
		return s
	case r.IsArray():
		arr := r.Array()
		s := &Struct{kind: KindSequence, items: make([]*Struct, 0, len(arr))}
		for _, item := range arr {
			s.items = append(s.items, fromResult(item))
		}
		return s
	}

	switch r.Type {
	case gjson.String:
		return &Struct{kind: KindString, scalar: r.Str}
	case gjson.Number:
		return &Struct{kind: KindNumber, scalar: r.Raw}
	case gjson.True:
		return &Struct{kind: KindBool, flag: true}
	case gjson.False:
		return &Struct{kind: KindBool}
	default:
		return Null()
	}
}

func (s *Struct) put(key string, v *Struct) {
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = v
}

// Kind returns the node kind.
func (s *Struct) Kind() Kind {
	return s.kind
}

// IsNull reports whether s is a null node.
func (s *Struct) IsNull() bool {
	return s.kind == KindNull
}

// Get returns the value stored under key, or a null node.
func (s *Struct) Get(key string) *Struct {
	if s.kind != KindMapping {
		return Null()
	}
	if v, ok := s.fields[key]; ok {
		return v
	}
	return Null()
}

// Has reports whether the mapping contains key.
func (s *Struct) Has(key string) bool {
	if s.kind != KindMapping {
		return false
	}
	_, ok := s.fields[key]
	return ok
}

// Index returns the i-th element of a sequence, or a null node.
func (s *Struct) Index(i int) *Struct {
	if s.kind != KindSequence || i < 0 || i >= len(s.items) {
		return Null()
	}
	return s.items[i]
}

// Path follows a dot separated path. Numeric segments index sequences.
//
//	s.Path("users.0.name")
func (s *Struct) Path(path string) *Struct {
	cur := s
	for _, seg := range strings.Split(path, ".") {
		if cur.kind == KindSequence {
			i, err := strconv.Atoi(seg)
			if err != nil {
				return Null()
			}
			cur = cur.Index(i)
			continue
		}
		cur = cur.Get(seg)
	}
	return cur
}

// Set stores v under key. v may be a *Struct or any JSON-encodable value.
func (s *Struct) Set(key string, v any) error {
	if s.kind != KindMapping {
		return ErrNotMapping
	}
	node, err := FromValue(v)
	if err != nil {
		return err
	}
	s.put(key, node)
	return nil
}

// Delete removes key from the mapping.
func (s *Struct) Delete(key string) error {
	if s.kind != KindMapping {
		return ErrNotMapping
	}
	if _, ok := s.fields[key]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	delete(s.fields, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Keys returns mapping keys in document order.
func (s *Struct) Keys() []string {
	if s.kind != KindMapping {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys or elements. Scalars have length 0.
func (s *Struct) Len() int {
	switch s.kind {
	case KindMapping:
		return len(s.keys)
	case KindSequence:
		return len(s.items)
	default:
		return 0
	}
}

// String returns the scalar text. Numbers keep their JSON form, booleans are
// "true" or "false", null is "", and containers return their JSON encoding.
func (s *Struct) String() string {
	switch s.kind {
	case KindString, KindNumber:
		return s.scalar
	case KindBool:
		return strconv.FormatBool(s.flag)
	case KindNull:
		return ""
	default:
		data, _ := s.MarshalJSON()
		return string(data)
	}
}

// Int returns a number node as int64.
func (s *Struct) Int() (int64, error) {
	if s.kind != KindNumber {
		return 0, fmt.Errorf("%s is not a number", s.kind)
	}
	return strconv.ParseInt(s.scalar, 10, 64)
}

// Float returns a number node as float64.
func (s *Struct) Float() (float64, error) {
	if s.kind != KindNumber {
		return 0, fmt.Errorf("%s is not a number", s.kind)
	}
	return strconv.ParseFloat(s.scalar, 64)
}

// Bool returns the value of a bool node; other kinds report false.
func (s *Struct) Bool() bool {
	return s.kind == KindBool && s.flag
}

// Value converts the tree back to plain Go values: map[string]any, []any,
// string, float64, bool or nil.
func (s *Struct) Value() any {
	switch s.kind {
	case KindMapping:
		m := make(map[string]any, len(s.keys))
		for _, k := range s.keys {
			m[k] = s.fields[k].Value()
		}
		return m
	case KindSequence:
		out := make([]any, len(s.items))
		for i, item := range s.items {
			out[i] = item.Value()
		}
		return out
	case KindString:
		return s.scalar
	case KindNumber:
		f, _ := strconv.ParseFloat(s.scalar, 64)
		return f
	case KindBool:
		return s.flag
	default:
		return nil
	}
}

// MarshalJSON encodes the tree, keeping mapping key order.
func (s *Struct) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Struct) encode(buf *bytes.Buffer) error {
	switch s.kind {
	case KindMapping:
		buf.WriteByte('{')
		for i, k := range s.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := s.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range s.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindString:
		str, err := json.Marshal(s.scalar)
		if err != nil {
			return err
		}
		buf.Write(str)
	case KindNumber:
		buf.WriteString(s.scalar)
	case KindBool:
		buf.WriteString(strconv.FormatBool(s.flag))
	default:
		buf.WriteString("null")
	}
	return nil
}

// ToJSON encodes the tree. A non-empty indent pretty-prints it.
func (s *Struct) ToJSON(indent string) (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	if indent == "" {
		return string(data), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}
