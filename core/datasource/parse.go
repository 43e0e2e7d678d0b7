package datasource

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Parse decodes one YAML file into data sources, one per top-level key.
// Key order is taken from the document, not from a map. Multi-document files are
// supported; an empty file yields no sources.
func Parse(origin string, data []byte) ([]DataSource, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var sources []DataSource
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if len(doc.Content) == 0 {
			continue
		}

		root := doc.Content[0]
		if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
			continue
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: top level must be a mapping of named collections", root.Line)
		}

		for i := 0; i+1 < len(root.Content); i += 2 {
			keyNode, valueNode := root.Content[i], root.Content[i+1]

			var items []map[string]any
			if err := valueNode.Decode(&items); err != nil {
				return nil, fmt.Errorf("line %d: %q must be a list of mappings: %w", valueNode.Line, keyNode.Value, err)
			}

			payload := make([]Record, 0, len(items))
			for _, item := range items {
				payload = append(payload, Record(item))
			}
			sources = append(sources, DataSource{
				Name:    keyNode.Value,
				Origin:  origin,
				Payload: payload,
			})
		}
	}

	return sources, nil
}
