package schema

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	v2 "github.com/s0up4200/arrconf/schema/v2"
)

// Marshal renders a document in the current shape
func Marshal(cfg v2.RootConfig) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode instance document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode instance document: %w", err)
	}

	return buf.Bytes(), nil
}
