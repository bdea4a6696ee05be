// Package lbfgs wires gonum's L-BFGS implementation to the graph API as an
// external optimizer: it adapts a forward+backward graph pair into
// gonum/optimize's Problem{Func, Grad} contract and drives convergence
// through repeated Compute calls.
package lbfgs

import (
	"log/slog"

	"gonum.org/v1/gonum/optimize"

	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/tensor"
)

// Result reports the outcome of one L-BFGS run.
type Result int

const (
	OK Result = iota
	DidNotConverge
	InvalidWolfe
	LinesearchFail
)

// Params configures one Run call. Logger receives per-evaluation loss
// tracing when non-nil.
type Params struct {
	MaxIterations int
	ExecOptions   graph.ExecOptions
	Logger        *slog.Logger
}

// DefaultParams returns conservative LBFGS defaults: 20 iterations,
// single-threaded execution.
func DefaultParams() Params {
	return Params{MaxIterations: 20, ExecOptions: graph.ExecOptions{Threads: 1}}
}

// adapter binds one scalar is_param leaf x to a forward graph gf computing
// loss from x, and the matching backward graph gb computing dLoss/dx.
type adapter struct {
	x      *tensor.Tensor
	gf     *graph.Graph
	gb     *graph.Graph
	loss   *tensor.Tensor
	opt    graph.ExecOptions
	logger *slog.Logger
}

func (a *adapter) sync(in []float64) {
	for i, v := range in {
		a.x.SetF32_1D(int64(i), float32(v))
	}
}

func (a *adapter) Func(in []float64) float64 {
	a.sync(in)
	graph.Compute(a.gf, a.opt)
	loss := float64(a.loss.GetF32_1D(0))
	if a.logger != nil {
		a.logger.Debug("lbfgs evaluation", "loss", loss)
	}
	return loss
}

func (a *adapter) Grad(out, in []float64) {
	a.sync(in)
	graph.GraphReset(a.gf)
	a.loss.Grad.SetF32_1D(0, 1)
	graph.Compute(a.gf, a.opt)
	graph.Compute(a.gb, a.opt)
	for i := range out {
		out[i] = float64(a.x.Grad.GetF32_1D(int64(i)))
	}
}

// Run minimizes loss (a scalar node built from the single is_param leaf x)
// via gonum's L-BFGS method, seeding from x's current value.
func Run(gf, gb *graph.Graph, x, loss *tensor.Tensor, p Params) ([]float32, Result) {
	a := &adapter{x: x, gf: gf, gb: gb, loss: loss, opt: p.ExecOptions, logger: p.Logger}

	n := int(x.Nelements())
	init := make([]float64, n)
	for i := 0; i < n; i++ {
		init[i] = float64(x.GetF32_1D(int64(i)))
	}

	problem := optimize.Problem{Func: a.Func, Grad: a.Grad}
	res, err := optimize.Minimize(problem, init, &optimize.Settings{
		MajorIterations: p.MaxIterations,
	}, &optimize.LBFGS{})
	if err != nil || res == nil {
		return nil, DidNotConverge
	}

	out := make([]float32, n)
	for i, v := range res.X {
		out[i] = float32(v)
	}
	return out, OK
}
