package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/layergraph/pkg/document"
	"github.com/aretw0/layergraph/pkg/domain"
)

// Store implements ports.DocumentStore using the local filesystem.
// Documents are written as <id>.yaml; <id>.yml and <id>.json are read too.
type Store struct {
	BasePath string
}

var extensions = []string{".yaml", ".yml", ".json"}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".layergraph/documents".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".layergraph", "documents")
	}
	return &Store{BasePath: basePath}
}

// Save persists the document atomically: it writes a temp file, syncs it and
// renames it over the destination.
func (s *Store) Save(ctx context.Context, doc *document.Document) error {
	if err := checkID(doc.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure document directory: %w", err)
	}

	data, err := document.Marshal(doc, document.FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// same directory, so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.BasePath, doc.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := filepath.Join(s.BasePath, doc.ID+".yaml")
	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing document for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to document: %w", err)
	}
	return nil
}

// Load reads the document file for id.
func (s *Store) Load(ctx context.Context, id string) (*document.Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, id+ext)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat document file: %w", err)
		}
		doc, err := document.LoadFile(path)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		return doc, nil
	}
	return nil, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
}

// Delete removes every file of the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, id+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete document file: %w", err)
		}
	}
	return nil
}

// List returns the ids of all document files, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}
