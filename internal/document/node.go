package document

import (
	"fmt"
	"strings"
)

// YAML core schema tags, as resolved by gopkg.in/yaml.v3.
const (
	StrTag       = "!!str"
	IntTag       = "!!int"
	FloatTag     = "!!float"
	BoolTag      = "!!bool"
	NullTag      = "!!null"
	TimestampTag = "!!timestamp"
	BinaryTag    = "!!binary"
)

// Node is one value of a parsed document. It is always one of *Mapping,
// Sequence or *Scalar.
type Node interface {
	node()
}

// Scalar is a leaf value. Value holds the literal text; Tag the resolved
// type of that text.
type Scalar struct {
	Tag   string
	Value string
	Style Style
}

// Style mirrors the presentation style of a scalar so a rewritten document
// keeps quoted and block strings as they were.
type Style uint32

// Sequence is an ordered list of nodes.
type Sequence []Node

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   Scalar
	Value Node
}

// Mapping is an insertion-ordered map keyed by scalar keys. Two keys are the
// same when both their tag and their text match, so 1 and "1" are distinct.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

func keyID(k Scalar) string {
	tag := k.Tag
	if tag == "" {
		tag = StrTag
	}
	return tag + "\x00" + k.Value
}

func (*Scalar) node()  {}
func (Sequence) node() {}
func (*Mapping) node() {}

// String returns a new string scalar.
func String(s string) *Scalar {
	return &Scalar{Tag: StrTag, Value: s}
}

// Null returns a new null scalar.
func Null() *Scalar {
	return &Scalar{Tag: NullTag, Value: "null"}
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: map[string]int{}}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns the key texts in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key.Value)
	}
	return keys
}

// Get returns the value stored under the string key.
func (m *Mapping) Get(key string) (Node, bool) {
	return m.Lookup(Scalar{Tag: StrTag, Value: key})
}

// Lookup returns the value stored under key, matching tag and text.
func (m *Mapping) Lookup(key Scalar) (Node, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[keyID(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether the string key is present, whatever its value.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// HasKey reports whether key is present, matching tag and text.
func (m *Mapping) HasKey(key Scalar) bool {
	_, ok := m.Lookup(key)
	return ok
}

// Set stores value under a string key. An existing key keeps its position.
func (m *Mapping) Set(key string, value Node) {
	m.SetEntry(Scalar{Tag: StrTag, Value: key}, value)
}

// SetEntry stores value under key, keeping the position of an existing entry
// with the same tag and text.
func (m *Mapping) SetEntry(key Scalar, value Node) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	id := keyID(key)
	if i, ok := m.index[id]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Delete removes the string key if present.
func (m *Mapping) Delete(key string) {
	if m == nil {
		return
	}
	id := keyID(Scalar{Tag: StrTag, Value: key})
	i, ok := m.index[id]
	if !ok {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.entries); j++ {
		m.index[keyID(m.entries[j].Key)] = j
	}
}

// IsNull reports whether n is absent or an explicit null scalar.
func IsNull(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Scalar:
		return v == nil || v.Tag == NullTag
	case *Mapping:
		return v == nil
	}
	return false
}

// IsString returns the text of a string scalar.
func IsString(n Node) (string, bool) {
	s, ok := n.(*Scalar)
	if !ok || s == nil || s.Tag != StrTag {
		return "", false
	}
	return s.Value, true
}

// TypeName names the type of n the way operators know it from the profile
// tooling: dict, list, str, int, float, bool, NoneType, datetime, bytes.
func TypeName(n Node) string {
	switch v := n.(type) {
	case *Mapping:
		if v == nil {
			return "NoneType"
		}
		return "dict"
	case Sequence:
		return "list"
	case *Scalar:
		if v == nil {
			return "NoneType"
		}
		switch v.Tag {
		case IntTag:
			return "int"
		case FloatTag:
			return "float"
		case BoolTag:
			return "bool"
		case NullTag:
			return "NoneType"
		case TimestampTag:
			return "datetime"
		case BinaryTag:
			return "bytes"
		default:
			return "str"
		}
	}
	return "NoneType"
}

// ShapeError reports a document value that is not a mapping where one is
// required.
type ShapeError struct {
	What string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s must be a YAML mapping at the top level, got %s", e.What, e.Got)
}

// AsMapping returns n as a mapping. Absent and null values become a new empty
// mapping; anything else is a *ShapeError naming what.
func AsMapping(n Node, what string) (*Mapping, error) {
	if IsNull(n) {
		return NewMapping(), nil
	}
	if m, ok := n.(*Mapping); ok {
		return m, nil
	}
	return nil, &ShapeError{What: what, Got: TypeName(n)}
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Mapping:
		if v == nil {
			return nil
		}
		return v.Clone()
	case Sequence:
		out := make(Sequence, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case *Scalar:
		if v == nil {
			return nil
		}
		c := *v
		return &c
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() *Mapping {
	out := &Mapping{
		entries: make([]Entry, 0, m.Len()),
		index:   make(map[string]int, m.Len()),
	}
	for _, e := range m.Entries() {
		out.SetEntry(e.Key, Clone(e.Value))
	}
	return out
}

// Equal reports whether a and b hold the same data. Mapping key order is not
// significant; sequence order is.
func Equal(a, b Node) bool {
	if IsNull(a) && IsNull(b) {
		return true
	}
	switch av := a.(type) {
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || av == nil || bv == nil || av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.entries {
			other, ok := bv.Lookup(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case Sequence:
		bv, ok := b.(Sequence)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Scalar:
		bv, ok := b.(*Scalar)
		if !ok || av == nil || bv == nil {
			return false
		}
		return av.Tag == bv.Tag && av.Value == bv.Value
	}
	return false
}

// Plain converts n into map[string]any, []any and string values. Mapping keys
// are reduced to their text, so keys differing only in tag collapse.
func Plain(n Node) any {
	switch v := n.(type) {
	case *Mapping:
		if v == nil {
			return nil
		}
		out := make(map[string]any, v.Len())
		for _, e := range v.entries {
			out[e.Key.Value] = Plain(e.Value)
		}
		return out
	case Sequence:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Plain(item)
		}
		return out
	case *Scalar:
		if v == nil || v.Tag == NullTag {
			return nil
		}
		return v.Value
	}
	return nil
}

// Path renders a key path the way error messages quote it, e.g.
// profiles['default']['openai-chat'].
func Path(root string, keys ...string) string {
	var b strings.Builder
	b.WriteString(root)
	for _, k := range keys {
		b.WriteString("['")
		b.WriteString(k)
		b.WriteString("']")
	}
	return b.String()
}
