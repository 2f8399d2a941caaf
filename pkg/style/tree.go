package style

import (
	"github.com/pterm/pterm"

	"github.com/davidmrtn/jobtree/pkg/namespace"
)

// RenderTree renders the namespace below root as an indented tree. Folder
// names carry a trailing slash so they read apart from jobs.
func RenderTree(root *namespace.Node) (string, error) {
	return pterm.DefaultTree.WithRoot(treeNode(root)).Srender()
}

func treeNode(n *namespace.Node) pterm.TreeNode {
	text := n.Name()
	if n.IsRoot() {
		text = namespace.RootToken
	}
	if n.IsFolder() && !n.IsRoot() {
		text += "/"
	}
	node := pterm.TreeNode{Text: text}
	for _, child := range n.Children() {
		node.Children = append(node.Children, treeNode(child))
	}
	return node
}
