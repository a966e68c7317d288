package rtree

import "errors"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// SkipChildren may be returned by a WalkFunc to skip the node's subtree.
var SkipChildren = errors.New("skip children") //nolint:revive,staticcheck // sentinel, not a failure

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns SkipChildren the node's children are not visited;
// any other non-nil error stops the walk and is returned.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for child := root.FirstChild; child != nil; {
		// Capture next first so callbacks may detach child.
		next := child.Next
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
		child = next
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck // callback never fails
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck // errStopWalk is expected
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

var errStopWalk = errors.New("stop walk")
