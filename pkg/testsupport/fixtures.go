package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ontoform/pkg/model"
	"github.com/goliatone/go-ontoform/pkg/schema"
)

// LoadDocument reads a fixture and builds a schema.Document using a file
// source. Failures stop the test immediately.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T so
// fixtures can be prepared in setup helpers.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadTree decodes and translates a wire schema fixture.
func MustLoadTree(t *testing.T, path string) model.Tree {
	t.Helper()

	wire, err := schema.Decode(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	tree, err := schema.Translate(wire)
	if err != nil {
		t.Fatalf("translate %s: %v", path, err)
	}
	return tree
}

// TextLeaf returns a visible free-text leaf.
func TextLeaf(id string) model.Leaf {
	return model.Leaf{Descriptor: model.Descriptor{
		ID:       id,
		Label:    id,
		PropType: model.PropTypeString,
		Visible:  true,
	}}
}

// NumberLeaf returns a visible numeric leaf.
func NumberLeaf(id string) model.Leaf {
	return model.Leaf{Descriptor: model.Descriptor{
		ID:       id,
		Label:    id,
		PropType: model.PropTypeNumber,
		Visible:  true,
	}}
}

// SectionOf wraps children in a section with the supplied identifier.
func SectionOf(id string, children ...model.Node) model.Section {
	return model.Section{
		Descriptor: model.Descriptor{ID: id, Label: id, PropType: model.PropTypeObjectProperty},
		Children:   children,
	}
}

// TwoFieldTree is the smallest tree mixing a root leaf with a nested one:
// A (text) and section B holding B1 (number).
func TwoFieldTree() model.Tree {
	return model.Tree{TextLeaf("A"), SectionOf("B", NumberLeaf("B1"))}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
