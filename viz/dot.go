// Package viz implements diagnostics for rendering a built graph to
// Graphviz DOT, the one opt-in file the engine ever writes.
package viz

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/awalterschulze/gographviz"

	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/tensor"
)

// Logger receives diagnostic tracing for DumpDot when non-nil. It is nil by
// default, so the common case never touches log/slog at all.
var Logger *slog.Logger

// dotWriter accumulates a graph into a gographviz.Graph before rendering.
type dotWriter struct {
	g    *gographviz.Graph
	seen map[string]bool
}

func newDotWriter() *dotWriter {
	g := gographviz.NewGraph()
	g.SetName("compute_graph")
	g.SetDir(true)
	return &dotWriter{g: g, seen: make(map[string]bool)}
}

func nodeID(t *tensor.Tensor) string {
	return fmt.Sprintf("n%p", t)
}

func (w *dotWriter) addNode(t *tensor.Tensor, isLeaf bool) {
	id := nodeID(t)
	if w.seen[id] {
		return
	}
	w.seen[id] = true

	label := t.Op.String()
	if isLeaf {
		label = "LEAF"
	}
	attrs := map[string]string{
		"label": fmt.Sprintf(`"%s\n%v"`, label, t.NE),
		"shape": "box",
	}
	if isLeaf {
		attrs["style"] = "filled"
		attrs["fillcolor"] = "lightgrey"
	}
	_ = w.g.AddNode("compute_graph", id, attrs)
}

func (w *dotWriter) addEdge(from, to *tensor.Tensor) {
	if from == nil {
		return
	}
	_ = w.g.AddEdge(nodeID(from), nodeID(to), true, nil)
}

// DumpDot renders the forward graph gf (and, if non-nil, the backward graph
// gb layered over the same node set) to a Graphviz DOT file at path.
func DumpDot(gb, gf *graph.Graph, path string) error {
	w := newDotWriter()

	for _, l := range gf.Leafs {
		w.addNode(l, true)
	}
	for _, n := range gf.Nodes {
		w.addNode(n, false)
		w.addEdge(n.Src0, n)
		w.addEdge(n.Src1, n)
		for _, o := range n.Opt {
			w.addEdge(o, n)
		}
	}
	if gb != nil {
		for _, n := range gb.Nodes {
			w.addNode(n, false)
			w.addEdge(n.Src0, n)
			w.addEdge(n.Src1, n)
		}
	}

	if Logger != nil {
		Logger.Debug("dumped compute graph", "path", path, "nodes", len(w.seen))
	}
	return os.WriteFile(path, []byte(w.g.String()), 0o644)
}
