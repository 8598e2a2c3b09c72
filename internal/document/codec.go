package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// ErrMultipleDocuments is returned by Parse when data holds more than one
// YAML document.
var ErrMultipleDocuments = errors.New("multiple YAML documents in input")

// Parse decodes the single YAML document in data. Key order is preserved and
// aliases are expanded. Empty (or comment-only) input yields a nil Node.
func Parse(data []byte) (Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil, fmt.Errorf("%w: second document at line %d", ErrMultipleDocuments, extra.Line)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		return decode(root.Content[0], map[*yaml.Node]bool{})
	}
	return decode(&root, map[*yaml.Node]bool{})
}

func decode(n *yaml.Node, expanding map[*yaml.Node]bool) (Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		if expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return decode(n.Alias, expanding)
	case yaml.ScalarNode:
		return &Scalar{Tag: n.ShortTag(), Value: n.Value, Style: Style(n.Style)}, nil
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decode(item, expanding)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		return decodeMapping(n, expanding)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decode(n.Content[0], expanding)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func decodeMapping(n *yaml.Node, expanding map[*yaml.Node]bool) (*Mapping, error) {
	m := NewMapping()
	var merges []*Mapping
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			merged, err := decodeMerge(valueNode, expanding)
			if err != nil {
				return nil, err
			}
			merges = append(merges, merged...)
			continue
		}
		key, err := decode(keyNode, expanding)
		if err != nil {
			return nil, err
		}
		k, ok := key.(*Scalar)
		if !ok {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars, got %s", keyNode.Line, TypeName(key))
		}
		value, err := decode(valueNode, expanding)
		if err != nil {
			return nil, err
		}
		m.SetEntry(*k, value)
	}
	// Explicit keys win over merged ones; earlier merge sources win over later.
	for _, src := range merges {
		for _, e := range src.Entries() {
			if !m.HasKey(e.Key) {
				m.SetEntry(e.Key, Clone(e.Value))
			}
		}
	}
	return m, nil
}

func decodeMerge(n *yaml.Node, expanding map[*yaml.Node]bool) ([]*Mapping, error) {
	v, err := decode(n, expanding)
	if err != nil {
		return nil, err
	}
	switch src := v.(type) {
	case *Mapping:
		return []*Mapping{src}, nil
	case Sequence:
		out := make([]*Mapping, 0, len(src))
		for _, item := range src {
			m, ok := item.(*Mapping)
			if !ok {
				return nil, fmt.Errorf("line %d: merge sequence may only contain mappings, got %s", n.Line, TypeName(item))
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping, got %s", n.Line, TypeName(v))
}

// Marshal encodes n as a YAML document with two-space indentation. Mapping
// keys are written in insertion order.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{encode(n)}}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func encode(n Node) *yaml.Node {
	switch v := n.(type) {
	case *Mapping:
		if v == nil {
			break
		}
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.entries {
			out.Content = append(out.Content, encodeScalar(&e.Key), encode(e.Value))
		}
		return out
	case Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			out.Content = append(out.Content, encode(item))
		}
		return out
	case *Scalar:
		if v == nil {
			break
		}
		return encodeScalar(v)
	}
	return encodeScalar(Null())
}

func encodeScalar(s *Scalar) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   s.Tag,
		Value: s.Value,
		Style: yaml.Style(s.Style),
	}
}
