// Package model defines the in-memory field tree built from the ontology
// service's wire schema. A tree is an ordered list of nodes; each node is
// either a Leaf (one operator answer) or a Section (a collapsible group with at
// least one child). Translation from the wire format lives in pkg/schema; the
// form engine in pkg/form only reads these types.
//
// Trees are immutable once built. Callers that need to mutate a tree should
// translate a fresh copy instead of editing nodes in place.
package model
