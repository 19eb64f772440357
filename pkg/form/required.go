package form

import "github.com/goliatone/go-ontoform/pkg/model"

// RequiredFields lists the identifiers the operator must answer, depth-first
// in display order. Sections are never listed; their children are visited
// whatever the section's own visibility. Invisible leaves are skipped.
func RequiredFields(tree model.Tree) []string {
	var ids []string
	model.Walk(tree, func(n model.Node, _ int) bool {
		if leaf, ok := n.(model.Leaf); ok && leaf.Visible {
			ids = append(ids, leaf.ID)
		}
		return true
	})
	return ids
}
