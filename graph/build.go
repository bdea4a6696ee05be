package graph

import (
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// BuildForward depth-first traverses root's src0/src1/opt links, producing
// a fresh Graph with leaves and nodes in topological (parents-before-
// children) order, the root appended last.
func BuildForward(root *tensor.Tensor) *Graph {
	g := &Graph{visited: make(map[*tensor.Tensor]bool)}
	BuildForwardExpand(g, root)
	return g
}

// BuildForwardExpand visits root into an existing graph g, skipping
// already-visited tensors, so multiple roots can share one graph.
func BuildForwardExpand(g *Graph, root *tensor.Tensor) {
	if g.visited == nil {
		g.visited = make(map[*tensor.Tensor]bool)
	}
	visit(g, root)
}

func visit(g *Graph, t *tensor.Tensor) {
	if t == nil || g.visited[t] {
		return
	}
	g.visited[t] = true

	visit(g, t.Src0)
	visit(g, t.Src1)
	for _, o := range t.Opt {
		visit(g, o)
	}

	if t.Op == tensor.OpNone && t.Grad == nil {
		g.Leafs = append(g.Leafs, t)
		return
	}
	g.Nodes = append(g.Nodes, t)
	g.Grads = append(g.Grads, t.Grad)
	assert.Require(len(g.Nodes) <= MaxNodes, "graph: exceeded MAX_NODES (%d)", MaxNodes)
}

// GraphReset zeroes every reachable gradient tensor's data, readying the
// graph for a fresh backward pass.
func GraphReset(g *Graph) {
	for _, grad := range g.Grads {
		if grad == nil {
			continue
		}
		zeroData(grad)
	}
	for _, leaf := range g.Leafs {
		if leaf.Grad != nil {
			zeroData(leaf.Grad)
		}
	}
}

func zeroData(t *tensor.Tensor) {
	for i := range t.Data {
		t.Data[i] = 0
	}
}

// GraphFind returns the index of t in g.Nodes, or -1 if absent.
func GraphFind(g *Graph, t *tensor.Tensor) int {
	for i, n := range g.Nodes {
		if n == t {
			return i
		}
	}
	return -1
}

// GraphGetParent returns the node in g.Nodes whose src0/src1/opt directly
// references child, or nil.
func GraphGetParent(g *Graph, child *tensor.Tensor) *tensor.Tensor {
	for _, n := range g.Nodes {
		if n.Src0 == child || n.Src1 == child {
			return n
		}
		for _, o := range n.Opt {
			if o == child {
				return n
			}
		}
	}
	return nil
}

// Validate checks three structural invariants:
// contiguous stride consistency, grad-shape parity, and that every source
// link appears earlier in nodes or in leafs.
func Validate(g *Graph) error {
	seen := make(map[*tensor.Tensor]bool, len(g.Leafs)+len(g.Nodes))
	for _, l := range g.Leafs {
		seen[l] = true
	}
	for i, n := range g.Nodes {
		for _, src := range []*tensor.Tensor{n.Src0, n.Src1, n.Opt[0], n.Opt[1], n.Opt[2]} {
			if src == nil {
				continue
			}
			assert.Require(seen[src], "graph: node %d (%s) references a tensor not yet visited", i, n.Op)
		}
		seen[n] = true
		if n.Grad != nil {
			assert.Require(n.Grad.NE == n.NE, "graph: grad shape %v does not match node shape %v", n.Grad.NE, n.NE)
		}
		if !viewOp(n.Op) {
			assert.Require(n.IsContiguous(), "graph: node %d (%s) has non-contiguous strides %v for shape %v", i, n.Op, n.NB, n.NE)
		}
	}
	return nil
}

// viewOp reports whether op is one of the kinds permitted to alias a
// source's data under strides that don't follow from its own shape
// (Permute and Transpose swap nb entries on purpose; View/Reshape carve a
// region out of a contiguous source but can still land non-trivial strides
// via the view constructors). Every other op's dst is either a fresh
// allocation or an in-place alias of one, so it must stay contiguous.
func viewOp(op tensor.Op) bool {
	switch op {
	case tensor.OpView, tensor.OpReshape, tensor.OpPermute, tensor.OpTranspose:
		return true
	default:
		return false
	}
}
