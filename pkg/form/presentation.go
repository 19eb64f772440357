package form

import "github.com/goliatone/go-ontoform/pkg/model"

// Presentation is the closed set of ways a leaf is shown to the operator.
type Presentation string

const (
	PresentationSelect   Presentation = "select"
	PresentationText     Presentation = "text"
	PresentationNumber   Presentation = "number"
	PresentationCheckbox Presentation = "checkbox"
)

// NoOptionsLabel is the disabled placeholder shown for object properties that
// arrive without options.
const NoOptionsLabel = "No options available"

// Resolve picks the presentation for a leaf. The checks run in a fixed order
// and clients depend on it: options first, then the text, numeric and boolean
// tags, then object properties, then text as the fallback.
func Resolve(d model.Descriptor) Presentation {
	if len(d.Options) > 0 {
		return PresentationSelect
	}
	switch d.PropType {
	case model.PropTypeString, model.PropTypeDataProperty:
		return PresentationText
	case model.PropTypeNumber, model.PropTypeInteger, model.PropTypeDecimal:
		return PresentationNumber
	case model.PropTypeBoolean:
		return PresentationCheckbox
	}
	if d.Kind() == model.PropertyKindObject {
		return PresentationSelect
	}
	return PresentationText
}

// NoOptions reports whether a leaf resolves to a select with nothing to pick.
// Renderers show NoOptionsLabel as a disabled entry instead of an empty list.
func NoOptions(d model.Descriptor) bool {
	return Resolve(d) == PresentationSelect && len(d.Options) == 0
}
