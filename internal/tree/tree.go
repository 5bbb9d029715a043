// Package tree implements pre-order traversals over a resource's tree
// projection. The projection is fetched whole in one backend call, so these
// walks are purely in-memory.
package tree

import "github.com/starford/fonds/internal/models"

// Collections are occasionally nested deeper than a comfortable call stack,
// so both walks run on an explicit stack. Pre-order is preserved by pushing
// children in reverse.

// FindNodesWithInstances collects, in pre-order, the uris of descendants
// carrying at least one instance. When instanceType is non-empty only nodes
// whose projection lists that type qualify. Descent continues through
// non-qualifying nodes. The returned slice is freshly allocated per call.
func FindNodesWithInstances(children []models.TreeNode, instanceType string) []string {
	uris := []string{}
	stack := make([]models.TreeNode, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(node.InstanceTypes) > 0 {
			if instanceType == "" || node.HasInstanceType(instanceType) {
				uris = append(uris, node.RecordURI)
			}
		}
		if node.HasChildren {
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
	return uris
}

// FlattenURIs collects every descendant uri in pre-order, regardless of
// instance presence. The returned slice is freshly allocated per call.
func FlattenURIs(children []models.TreeNode) []string {
	uris := []string{}
	stack := make([]models.TreeNode, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		uris = append(uris, node.RecordURI)
		if node.HasChildren {
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
	return uris
}
