package maskconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMaskingDoc reads and parses the masking rules document. Role names
// carrying the {env} placeholder must be quoted when written in YAML flow
// sequences, since braces are reserved there.
func LoadMaskingDoc(path string) (*MaskingDoc, error) {
	var doc MaskingDoc
	if err := loadYAMLFile(path, &doc); err != nil {
		return nil, err
	}
	for i, entry := range doc.Columns {
		if len(entry) != 1 {
			return nil, fmt.Errorf("%s: columns[%d] must be a single-entry mapping, got %d keys", path, i, len(entry))
		}
	}
	return &doc, nil
}

// LoadDirectoryDoc reads and parses the external identity directory.
func LoadDirectoryDoc(path string) (DirectoryDoc, error) {
	doc := DirectoryDoc{}
	if err := loadYAMLFile(path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// loadYAMLFile reads and strictly unmarshals a YAML file into target.
// Unknown fields are rejected so typos in operator configs surface early.
func loadYAMLFile(path string, target interface{}) error {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading operator-specified config files
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
