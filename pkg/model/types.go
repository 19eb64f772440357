package model

// PropertyKind distinguishes ontology data properties from object properties.
type PropertyKind string

const (
	PropertyKindData   PropertyKind = "DataProperty"
	PropertyKindObject PropertyKind = "ObjectProperty"
)

// Property type tags emitted by the ontology service in the propType slot.
const (
	PropTypeDataProperty   = "Data Prop"
	PropTypeObjectProperty = "Object Prop"
	PropTypeString         = "string"
	PropTypeNumber         = "number"
	PropTypeInteger        = "integer"
	PropTypeDecimal        = "decimal"
	PropTypeBoolean        = "boolean"
)

// Option is a selectable answer. Value carries the ontology URI submitted to
// the backend; Label is display only.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Descriptor holds the attributes shared by leaf and section nodes. Functional,
// InverseFunctional and Transparentable are carried through untouched.
type Descriptor struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	Domain            string   `json:"domain,omitempty"`
	Range             string   `json:"range,omitempty"`
	PropType          string   `json:"propType"`
	Functional        bool     `json:"functional"`
	InverseFunctional bool     `json:"inverseFunctional"`
	Transparentable   bool     `json:"transparentable"`
	Visible           bool     `json:"visible"`
	Options           []Option `json:"options,omitempty"`
}

// Kind reports the property kind encoded in PropType.
func (d Descriptor) Kind() PropertyKind {
	if d.PropType == PropTypeObjectProperty {
		return PropertyKindObject
	}
	return PropertyKindData
}

// Node is either a Leaf or a Section. The interface is sealed so a type switch
// over both variants covers every node.
type Node interface {
	Base() Descriptor
	node()
}

// Leaf is an answerable field.
type Leaf struct {
	Descriptor
}

// Section groups child nodes and is never answered directly. A Section always
// has at least one child.
type Section struct {
	Descriptor
	Children []Node
}

// Base returns the shared descriptor.
func (l Leaf) Base() Descriptor { return l.Descriptor }

// Base returns the shared descriptor.
func (s Section) Base() Descriptor { return s.Descriptor }

func (Leaf) node()    {}
func (Section) node() {}

// Tree is the ordered list of root nodes. Order is display and validation
// order.
type Tree []Node
