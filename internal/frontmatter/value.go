package frontmatter

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes the two shapes a front matter value can take.
type Kind int

const (
	KindScalar Kind = iota
	KindList
)

func (k Kind) String() string {
	if k == KindList {
		return "list"
	}
	return "scalar"
}

var (
	// ErrKeyNotFound is returned by typed accessors when the key is absent.
	ErrKeyNotFound = errors.New("front matter key not found")
	// ErrTypeMismatch is returned when a key holds the other value shape.
	ErrTypeMismatch = errors.New("front matter value has unexpected type")
)

// Value is either a scalar string or an ordered list of strings.
type Value struct {
	kind   Kind
	scalar string
	list   []string
}

// Scalar constructs a scalar value.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// List constructs a list value. The items are copied.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Kind reports the value shape.
func (v Value) Kind() Kind { return v.kind }

// AsScalar returns the scalar text; ok is false for list values.
func (v Value) AsScalar() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	return v.scalar, true
}

// AsList returns a copy of the list items; ok is false for scalar values.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// MarshalYAML renders scalars as strings and lists as flow sequences.
func (v Value) MarshalYAML() (any, error) {
	if v.kind == KindList {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range v.list {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.scalar}, nil
}

// Map holds the parsed front matter fields keyed by field name.
type Map map[string]Value

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Scalar returns the scalar stored under key.
func (m Map) Scalar(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	s, ok := v.AsScalar()
	if !ok {
		return "", fmt.Errorf("%w: %s is a %s", ErrTypeMismatch, key, v.kind)
	}
	return s, nil
}

// List returns the list stored under key.
func (m Map) List(key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	items, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", ErrTypeMismatch, key, v.kind)
	}
	return items, nil
}

// Keys returns the field names in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalYAML emits a mapping with keys sorted so dumps are stable.
func (m Map) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.Keys() {
		val, err := m[k].MarshalYAML()
		if err != nil {
			return nil, err
		}
		valNode, _ := val.(*yaml.Node)
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
	}
	return n, nil
}
