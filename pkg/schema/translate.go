package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-ontoform/pkg/model"
)

// DefaultMaxDepth bounds how deeply sections may nest. Roots sit at depth 1.
const DefaultMaxDepth = 32

// TranslateOption configures Translate.
type TranslateOption func(*translator)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) TranslateOption {
	return func(t *translator) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

type translator struct {
	maxDepth int
	validate *validator.Validate
}

// Translate converts wire fields into a model.Tree. The copy is deep and order
// preserving; null and empty option or subForm lists are both treated as
// absent. Nodes missing a required key fail with ErrSchemaMalformed and
// nesting beyond the depth limit fails with ErrSchemaTooDeep before the
// offending level is visited.
func Translate(wire []WireField, options ...TranslateOption) (model.Tree, error) {
	t := &translator{
		maxDepth: DefaultMaxDepth,
		validate: wireValidator(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	nodes, err := t.nodes(wire, "form", 1)
	if err != nil {
		return nil, err
	}
	return model.Tree(nodes), nil
}

func (t *translator) nodes(wire []WireField, path string, depth int) ([]model.Node, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	if depth > t.maxDepth {
		return nil, fmt.Errorf("%w: %s exceeds %d levels", ErrSchemaTooDeep, path, t.maxDepth)
	}

	out := make([]model.Node, 0, len(wire))
	for i := range wire {
		node, err := t.node(&wire[i], fmt.Sprintf("%s[%d]", path, i), depth)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (t *translator) node(w *WireField, path string, depth int) (model.Node, error) {
	if err := t.check(w, path); err != nil {
		return nil, err
	}

	desc := model.Descriptor{
		ID:                *w.PropURI,
		Label:             *w.PropLabel,
		Domain:            *w.Domain,
		Range:             *w.Range,
		PropType:          *w.PropType,
		Functional:        *w.Functional,
		InverseFunctional: *w.InverseFunctional,
		Transparentable:   *w.CanBeTransparented,
		Visible:           *w.Shown,
	}

	if len(w.Options) > 0 {
		desc.Options = make([]model.Option, 0, len(w.Options))
		for i := range w.Options {
			opt := &w.Options[i]
			if err := t.check(opt, fmt.Sprintf("%s.options[%d]", path, i)); err != nil {
				return nil, err
			}
			desc.Options = append(desc.Options, model.Option{Label: *opt.Label, Value: *opt.URI})
		}
	}

	if len(w.SubForm) == 0 {
		return model.Leaf{Descriptor: desc}, nil
	}

	children, err := t.nodes(w.SubForm, path+".subForm", depth+1)
	if err != nil {
		return nil, err
	}
	return model.Section{Descriptor: desc, Children: children}, nil
}

func (t *translator) check(value any, path string) error {
	err := t.validate.Struct(value)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrSchemaMalformed, path, err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: %s: missing %s", ErrSchemaMalformed, path, strings.Join(missing, ", "))
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func wireValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validatorInst = v
	})
	return validatorInst
}

// ToWire converts a tree back into wire fields. Translate(ToWire(tree))
// reproduces tree field for field.
func ToWire(tree model.Tree) []WireField {
	return toWireNodes(tree)
}

func toWireNodes(nodes []model.Node) []WireField {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]WireField, 0, len(nodes))
	for _, n := range nodes {
		var (
			desc     model.Descriptor
			children []model.Node
		)
		switch typed := n.(type) {
		case model.Leaf:
			desc = typed.Descriptor
		case model.Section:
			desc = typed.Descriptor
			children = typed.Children
		default:
			continue
		}
		out = append(out, WireField{
			PropLabel:          ptr(desc.Label),
			PropURI:            ptr(desc.ID),
			Domain:             ptr(desc.Domain),
			Range:              ptr(desc.Range),
			PropType:           ptr(desc.PropType),
			Functional:         ptr(desc.Functional),
			InverseFunctional:  ptr(desc.InverseFunctional),
			Options:            toWireOptions(desc.Options),
			SubForm:            toWireNodes(children),
			CanBeTransparented: ptr(desc.Transparentable),
			Shown:              ptr(desc.Visible),
		})
	}
	return out
}

func toWireOptions(options []model.Option) []WireOption {
	if len(options) == 0 {
		return nil
	}
	out := make([]WireOption, 0, len(options))
	for _, opt := range options {
		out = append(out, WireOption{Label: ptr(opt.Label), URI: ptr(opt.Value)})
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
