package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is one key of an ordered frontmatter block.
//
// Value may be a string, a []string, or a []Mapping. Strings are emitted double-quoted,
// slices as block sequences.
type Field struct {
	Key   string
	Value any
}

// Mapping is an ordered mapping used as a sequence item (e.g. a FAQ entry).
type Mapping []Field

// SerializeFields serializes fields in the given order into YAML bytes (without delimiters).
func SerializeFields(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := mappingNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compose joins serialized fields and body as `---\n<yaml>---\n\n<body>`.
func Compose(fields []Field, body string) ([]byte, error) {
	raw, err := SerializeFields(fields)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(raw) + len(body) + 10)
	out.WriteString("---\n")
	out.Write(raw)
	out.WriteString("---\n\n")
	out.WriteString(body)
	return out.Bytes(), nil
}

func mappingNode(fields []Field) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		val, err := valueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, val)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case string:
		return quoted(vv), nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, quoted(item))
		}
		return seq, nil
	case []Mapping:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			m, err := mappingNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, m)
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unsupported frontmatter value type %T", v)
	}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: s}
}
