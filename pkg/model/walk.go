package model

// WalkFunc is invoked for every node in pre-order. depth starts at 1 for
// roots. Returning false from a Section visit skips its children.
type WalkFunc func(node Node, depth int) bool

// Walk traverses the tree depth-first in pre-order.
func Walk(tree Tree, fn WalkFunc) {
	if fn == nil {
		return
	}
	walkNodes(tree, 1, fn)
}

func walkNodes(nodes []Node, depth int, fn WalkFunc) {
	for _, n := range nodes {
		descend := fn(n, depth)
		if section, ok := n.(Section); ok && descend {
			walkNodes(section.Children, depth+1, fn)
		}
	}
}

// Find returns the node with the supplied identifier.
func Find(tree Tree, id string) (Node, bool) {
	var found Node
	Walk(tree, func(n Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Base().ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Depth reports the deepest nesting level in the tree. An empty tree has
// depth zero.
func Depth(tree Tree) int {
	deepest := 0
	Walk(tree, func(_ Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
