package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads a YAML scenario file into Settings. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadScenario(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Input: path, Err: fmt.Errorf("failed to read scenario: %w", err)}
	}
	s, err := DecodeScenario(data)
	if err != nil {
		return nil, &ConfigError{Input: path, Err: err}
	}
	return s, nil
}

// DecodeScenario decodes a single YAML document. Absent keys keep the CLI
// defaults and an empty header list decodes as nil.
func DecodeScenario(data []byte) (*Settings, error) {
	s := NewSettings("")
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("invalid yaml format: empty document")
		}
		return nil, fmt.Errorf("invalid yaml format: %w", err)
	}
	if len(s.Headers) == 0 {
		s.Headers = nil
	}
	return s, nil
}

// EncodeScenario renders settings in the scenario file format.
func EncodeScenario(s *Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	return buf.Bytes(), nil
}
