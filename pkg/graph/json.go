package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteFile persists the finalized graph as a single indented JSON document.
func (g *Graph) WriteFile(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write graph %q: %w", path, err)
	}
	return nil
}

// LoadFromFile reads a previously persisted graph document.
func LoadFromFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph %q: %w", path, err)
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse graph %q: %w", path, err)
	}
	return &g, nil
}
