package tree

import "github.com/akmonengine/obbtree/obb"

// Node is a node of the tree. It owns either no child (leaf) or exactly two.
type Node struct {
	OBB      obb.OBB
	Children [2]*Node
}

// IsLeaf reports whether the node has no children; its OBB then carries the triangle set
func (n *Node) IsLeaf() bool {
	return n.Children[0] == nil && n.Children[1] == nil
}

func (n *Node) Left() *Node {
	return n.Children[0]
}

func (n *Node) Right() *Node {
	return n.Children[1]
}
