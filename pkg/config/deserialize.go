package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionName is the optional top-level key wrapping the extension settings.
const SectionName = "phantoman"

// Parse decodes a YAML (or JSON) document into an ordered Config.
// String values are expanded with envMapping; pass nil to disable expansion.
func Parse(data []byte, envMapping func(string) string) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at the top level, got %s", ErrInvalidConfig, kindName(root.Kind))
	}
	if section := lookup(root, SectionName); section != nil {
		if section.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: %q must be a mapping, got %s", ErrInvalidConfig, SectionName, kindName(section.Kind))
		}
		root = section
	}

	cfg := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidConfig, keyNode.Value, err)
		}
		if envMapping != nil {
			value = expand(value, envMapping)
		}
		cfg.Set(keyNode.Value, value)
	}
	return cfg, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func expand(value any, envMapping func(string) string) any {
	switch v := value.(type) {
	case string:
		return os.Expand(v, envMapping)
	case []any:
		for i := range v {
			v[i] = expand(v[i], envMapping)
		}
		return v
	default:
		return v
	}
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
