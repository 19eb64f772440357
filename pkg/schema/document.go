package schema

import (
	"errors"
	"path"
	"strings"
)

// Document wraps a raw wire schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format names the encoding a document is expected to use.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Format guesses the encoding from the location extension. Remote documents
// and unknown extensions are treated as JSON, the service's native encoding.
func (d Document) Format() Format {
	if d.source == nil || d.source.Kind() == SourceKindURL {
		return FormatJSON
	}
	switch strings.ToLower(path.Ext(d.source.Location())) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
