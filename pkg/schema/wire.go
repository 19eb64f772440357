package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// WireOption is a selectable answer as sent by the ontology service.
type WireOption struct {
	Label *string `json:"label" yaml:"label" validate:"required"`
	URI   *string `json:"uri" yaml:"uri" validate:"required"`
}

// WireField is one node of the ontology service's form payload. Scalar slots
// are pointers so an absent key can be told apart from a zero value; options
// and subForm may be null.
type WireField struct {
	PropLabel          *string      `json:"propLabel" yaml:"propLabel" validate:"required"`
	PropURI            *string      `json:"propUri" yaml:"propUri" validate:"required"`
	Domain             *string      `json:"domain" yaml:"domain" validate:"required"`
	Range              *string      `json:"range" yaml:"range" validate:"required"`
	PropType           *string      `json:"propType" yaml:"propType" validate:"required"`
	Functional         *bool        `json:"functional" yaml:"functional" validate:"required"`
	InverseFunctional  *bool        `json:"inverseFunctional" yaml:"inverseFunctional" validate:"required"`
	Options            []WireOption `json:"options" yaml:"options" validate:"-"`
	SubForm            []WireField  `json:"subForm" yaml:"subForm" validate:"-"`
	CanBeTransparented *bool        `json:"canBeTransparented" yaml:"canBeTransparented" validate:"required"`
	Shown              *bool        `json:"shown" yaml:"shown" validate:"required"`
}

// Decode parses a document into wire fields. The document's format decides
// which decoder runs first; the other one is tried before giving up.
func Decode(doc Document) ([]WireField, error) {
	raw := doc.Raw()
	if doc.Format() == FormatYAML {
		return decode(raw, decodeYAML, decodeJSON, doc.Location())
	}
	return decode(raw, decodeJSON, decodeYAML, doc.Location())
}

// DecodeJSON parses a JSON payload into wire fields.
func DecodeJSON(raw []byte) ([]WireField, error) {
	return decode(raw, decodeJSON, nil, "response")
}

type decoderFunc func([]byte) ([]WireField, error)

func decode(raw []byte, primary, fallback decoderFunc, location string) ([]WireField, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrSchemaMalformed, location)
	}
	fields, err := primary(raw)
	if err == nil {
		return fields, nil
	}
	if fallback != nil {
		if fields, fbErr := fallback(raw); fbErr == nil {
			return fields, nil
		}
	}
	return nil, fmt.Errorf("%w: decode %s: %v", ErrSchemaMalformed, location, err)
}

func decodeJSON(raw []byte) ([]WireField, error) {
	var fields []WireField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeYAML(raw []byte) ([]WireField, error) {
	var fields []WireField
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Encode renders wire fields as JSON, the service's native encoding.
func Encode(fields []WireField) ([]byte, error) {
	return json.MarshalIndent(fields, "", "  ")
}
