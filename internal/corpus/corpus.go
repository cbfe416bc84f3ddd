// Package corpus loads and writes the JSON array-of-strings format the
// engine's input and output programs live in: one s-expression string per
// program, parseable by package sparser.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a JSON array of program strings from path.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", path, err)
	}
	var programs []string
	if err := json.Unmarshal(data, &programs); err != nil {
		return nil, fmt.Errorf("corpus: parsing %s as a JSON array of strings: %w", path, err)
	}
	return programs, nil
}

// Write serializes programs as an indented JSON array to path.
func Write(path string, programs []string) error {
	data, err := json.MarshalIndent(programs, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: marshaling programs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("corpus: writing %s: %w", path, err)
	}
	return nil
}
