package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a document and fills in missing ids.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", format, err)
	}
	doc.EnsureIDs()
	return &doc, nil
}

func unmarshal(data []byte, format Format, doc *Document) error {
	if format == FormatJSON {
		return json.Unmarshal(data, doc)
	}
	return yaml.Unmarshal(data, doc)
}

// Marshal encodes a document.
func Marshal(doc *Document, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// LoadFile reads and parses a document file. The document id defaults to
// the file name without its extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	var doc Document
	if err := unmarshal(data, FormatFromPath(path), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	doc.EnsureIDs()
	return &doc, nil
}
