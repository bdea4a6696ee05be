// Package graph implements forward and backward graph construction,
// invariant validation, and the parallel phase executor that computes
// one Graph.
package graph

import "github.com/sbl8/ggtensor/tensor"

// MaxNodes bounds a graph's node capacity.
const MaxNodes = 4096

// Graph is the engine's linearized computation graph: nodes in topological
// order, the leaves that feed them, and each node's gradient slot.
type Graph struct {
	Nodes []*tensor.Tensor
	Leafs []*tensor.Tensor
	Grads []*tensor.Tensor

	NThreads int
	WorkSize uintptr
	Work     *tensor.Tensor

	visited map[*tensor.Tensor]bool
}

// NodeCount returns the number of non-leaf nodes in g.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// LeafCount returns the number of leaf tensors in g.
func (g *Graph) LeafCount() int { return len(g.Leafs) }

// GradOf returns the gradient tensor parallel to node n in g.Nodes, or nil.
func (g *Graph) GradOf(n *tensor.Tensor) *tensor.Tensor {
	for i, node := range g.Nodes {
		if node == n {
			return g.Grads[i]
		}
	}
	return nil
}
