// Package codec converts between YAML text and generic document trees.
package codec

import (
	"bytes"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Mapping is a decoded YAML mapping. Keys iterate in document order.
type Mapping = orderedmap.OrderedMap[string, any]

const mergeTag = "!!merge"

// Decode parses the first YAML document in data. Mappings decode to
// *Mapping, sequences to []any and scalars to their natural Go type. Empty
// input decodes to an empty mapping.
func Decode(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "codec: decode yaml")
	}
	out, err := fromNode(&root)
	if err != nil {
		return nil, errors.Wrap(err, "codec: decode yaml")
	}
	if out == nil {
		return orderedmap.New[string, any](), nil
	}
	return out, nil
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := orderedmap.New[string, any]()
		if err := fillMapping(m, n); err != nil {
			return nil, err
		}
		return m, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}
	return v, nil
}

// fillMapping copies n's pairs into m. Explicit keys win over merged ones.
func fillMapping(m *Mapping, n *yaml.Node) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.Value == "<<" && key.ShortTag() == mergeTag {
			merges = append(merges, value)
			continue
		}
		v, err := fromNode(value)
		if err != nil {
			return err
		}
		m.Set(keyText(key), v)
	}
	for _, src := range merges {
		if src.Kind == yaml.AliasNode {
			src = src.Alias
		}
		sources := []*yaml.Node{src}
		if src.Kind == yaml.SequenceNode {
			sources = src.Content
		}
		for _, s := range sources {
			if s.Kind == yaml.AliasNode {
				s = s.Alias
			}
			if s.Kind != yaml.MappingNode {
				return errors.Errorf("line %d: merge value is not a mapping", s.Line)
			}
			merged := orderedmap.New[string, any]()
			if err := fillMapping(merged, s); err != nil {
				return err
			}
			for pair := merged.Oldest(); pair != nil; pair = pair.Next() {
				if _, exists := m.Get(pair.Key); !exists {
					m.Set(pair.Key, pair.Value)
				}
			}
		}
	}
	return nil
}

func keyText(key *yaml.Node) string {
	if key.Kind == yaml.AliasNode && key.Alias != nil {
		key = key.Alias
	}
	return key.Value
}

// Encode writes v as a YAML document indented by two spaces.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "codec: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "codec: flush yaml")
	}
	return buf.Bytes(), nil
}
