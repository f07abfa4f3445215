package tree

// Walk visits the tree depth first, parents before children and left before right.
// Returning false from fn skips the children of the visited node.
func (t *Tree) Walk(fn func(node *Node, depth int) bool) {
	type entry struct {
		node  *Node
		depth int
	}

	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(e.node, e.depth) || e.node.IsLeaf() {
			continue
		}

		stack = append(stack, entry{e.node.Children[1], e.depth + 1}, entry{e.node.Children[0], e.depth + 1})
	}
}

// NodesAtLevel returns the nodes at the given depth, left to right
func (t *Tree) NodesAtLevel(level int) []*Node {
	var nodes []*Node
	t.Walk(func(node *Node, depth int) bool {
		if depth == level {
			nodes = append(nodes, node)
			return false
		}
		return depth < level
	})

	return nodes
}

// Leaves returns every leaf, left to right
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.Walk(func(node *Node, _ int) bool {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
		return true
	})

	return leaves
}
