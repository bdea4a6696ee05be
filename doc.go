// Package ggtensor implements an arena-backed tensor computation engine for
// CPU inference and small-scale training.
//
// Callers build a directed acyclic graph of tensor operations against a
// bump-allocated memory arena, then execute it on a fixed-size worker pool.
// The engine supports forward evaluation, reverse-mode automatic
// differentiation, and two gradient-based optimizers (Adam, L-BFGS).
//
// # Architecture Overview
//
//   - arena: bump allocator that owns every tensor header and data region
//   - tensor: strided multi-dim tensor view with dtype, shape, gradient link
//   - ops: one constructor per operation kind, building nodes into an arena
//   - kernel: scalar compute primitives and the forward kernel for each op
//   - graph: topological graph builder, backward synthesis, parallel executor
//   - viz: Graphviz DOT export for built graphs
//   - optim: Adam and L-BFGS optimizers that drive the graph as consumers
//
// # Execution model
//
//	a, _ := arena.Init(1<<20, nil)
//	ctx := tensor.NewContext(a)
//	x := ctx.NewTensor1D(dtype.F32, 3)
//	y := ops.Sum(ctx, ops.Sqr(ctx, x, ops.Fresh))
//	g := graph.BuildForward(y)
//	graph.Compute(g, graph.ExecOptions{Threads: 4})
//
// # Package layout
//
//   - arena: process-wide context pool, bump allocation, FP16/GELU tables
//   - tensor: tensor header, shape predicates, element accessors
//   - ops: op constructors (fresh and in-place variants)
//   - kernel: scalar compute primitives plus the per-op forward kernels
//   - graph: forward/backward graph construction, reset, the phase executor
//   - optim/adam, optim/lbfgs: optimizer collaborators over the graph API
//   - viz: Graphviz export for diagnosing a built graph
package ggtensor
