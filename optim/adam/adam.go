// Package adam implements the Adam optimizer as an external consumer of the
// graph API: it repeatedly resets gradients, runs a forward graph plus its
// backward graph, and applies the Adam update rule to every is_param
// tensor.
package adam

import (
	"log/slog"
	"math"

	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// Params holds Adam's hyperparameters. Logger receives per-step loss
// tracing when non-nil; it is nil by default so a training loop that never
// opts in never touches log/slog.
type Params struct {
	Alpha       float32
	Beta1       float32
	Beta2       float32
	Eps         float32
	NIter       int
	ExecOptions graph.ExecOptions
	Logger      *slog.Logger
}

// DefaultParams returns Adam's usual defaults.
func DefaultParams() Params {
	return Params{
		Alpha: 0.001,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
		NIter: 100,
		ExecOptions: graph.ExecOptions{Threads: 1},
	}
}

type momentState struct {
	m, v []float32
}

// Result reports whether NIter completed without a numerical failure.
type Result int

const (
	OK Result = iota
	DidNotConverge
)

// Run drives the forward graph gf and its backward graph gb for p.NIter
// steps, minimizing the scalar output loss via the Adam update rule. Every
// is_param tensor reachable from gf (whether a leaf or a node promoted out
// of leaf status because it owns a grad) is updated.
func Run(gf, gb *graph.Graph, loss *tensor.Tensor, p Params) Result {
	params := paramTensors(gf)
	state := make(map[*tensor.Tensor]*momentState, len(params))
	for _, t := range params {
		state[t] = &momentState{
			m: make([]float32, t.Nelements()),
			v: make([]float32, t.Nelements()),
		}
	}

	for step := 1; step <= p.NIter; step++ {
		graph.GraphReset(gf)
		graph.Compute(gf, p.ExecOptions)
		loss.Grad.SetF32_1D(0, 1)
		graph.Compute(gb, p.ExecOptions)

		if p.Logger != nil {
			p.Logger.Debug("adam step", "step", step, "loss", loss.GetF32_1D(0))
		}
		if l := float64(loss.GetF32_1D(0)); math.IsNaN(l) || math.IsInf(l, 0) {
			return DidNotConverge
		}

		t1 := float32(1 - math.Pow(float64(p.Beta1), float64(step)))
		t2 := float32(1 - math.Pow(float64(p.Beta2), float64(step)))

		for _, t := range params {
			st := state[t]
			g := t.Grad.F32Slice()
			x := t.F32Slice()
			for i := range x {
				st.m[i] = p.Beta1*st.m[i] + (1-p.Beta1)*g[i]
				st.v[i] = p.Beta2*st.v[i] + (1-p.Beta2)*g[i]*g[i]
				mHat := st.m[i] / t1
				vHat := st.v[i] / t2
				x[i] -= p.Alpha * mHat / (float32(math.Sqrt(float64(vHat))) + p.Eps)
			}
		}
	}
	return OK
}

func paramTensors(g *graph.Graph) []*tensor.Tensor {
	var out []*tensor.Tensor
	for _, l := range g.Leafs {
		if l.IsParam {
			out = append(out, l)
		}
	}
	for _, n := range g.Nodes {
		if n.IsParam {
			out = append(out, n)
		}
	}
	assert.Require(len(out) > 0, "adam: graph has no is_param tensors to optimize")
	return out
}
