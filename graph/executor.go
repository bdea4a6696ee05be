package graph

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/kernel"
	"github.com/sbl8/ggtensor/tensor"
)

// ExecOptions configures one Compute call. The executor requires an
// explicit thread count rather than silently defaulting a non-positive
// value.
type ExecOptions struct {
	Threads int
}

// barrier is the sense-reversing, busy-wait synchronization point shared by
// the main thread and its helper goroutines across one node's three
// phases. gen is bumped on every publish so a helper that
// wakes from its spin executes the new phase exactly once, even if it is
// scheduled late relative to a sibling helper.
type barrier struct {
	gen     atomic.Int64
	nReady  atomic.Int32
	hasWork atomic.Bool
	stop    atomic.Bool

	node  *tensor.Tensor
	phase kernel.Phase
	fn    kernel.ForwardFn
	nth   int
}

// publish hands a new phase to the helper pool: only the first nth-1
// helpers (by ith) do any work, mirroring the main-thread-partitions-rows
// task-count policy; helpers beyond nth-1 observe the generation change
// and no-op.
func (b *barrier) publish(node *tensor.Tensor, phase kernel.Phase, fn kernel.ForwardFn, nth int) {
	b.node, b.phase, b.fn, b.nth = node, phase, fn, nth
	b.nReady.Store(0)
	b.hasWork.Store(true)
	b.gen.Add(1)
}

// waitHelpers busy-spins until `helpers` helpers have reported ready for the
// current generation. Compute passes the full helper count, so every helper
// (including those with no work in this phase) reports before the next
// publish and none can fall a generation behind.
func (b *barrier) waitHelpers(helpers int32) {
	if helpers <= 0 {
		return
	}
	for b.nReady.Load() < helpers {
		runtime.Gosched()
	}
}

func helperLoop(b *barrier, ith int) {
	lastGen := int64(0)
	for {
		var gen int64
		for {
			if b.stop.Load() {
				return
			}
			gen = b.gen.Load()
			if gen != lastGen && b.hasWork.Load() {
				break
			}
			runtime.Gosched()
		}
		lastGen = gen
		if ith < b.nth {
			b.fn(kernel.Params{Phase: b.phase, Ith: ith, Nth: b.nth}, b.node)
		}
		b.nReady.Add(1)
	}
}

// Compute executes g on a pool of opt.Threads workers: n_threads-1 helper
// goroutines are spawned for the duration of the call and joined at the
// end. Each node passes through INIT, COMPUTE, and
// FINALIZE in strict topological order; phase boundaries are total — no
// helper starts phase P+1 until every helper owed work in phase P has
// reported ready.
func Compute(g *Graph, opt ExecOptions) {
	assert.Require(opt.Threads > 0, "graph: caller must supply a positive thread count")
	g.NThreads = opt.Threads
	SizeWorkBuffer(g)

	if opt.Threads == 1 || len(g.Nodes) == 0 {
		for _, n := range g.Nodes {
			runSequential(n)
		}
		return
	}

	b := &barrier{}
	var wg sync.WaitGroup
	for ith := 1; ith < opt.Threads; ith++ {
		ith := ith
		wg.Add(1)
		go func() {
			defer wg.Done()
			helperLoop(b, ith)
		}()
	}
	helpers := int32(opt.Threads - 1)

	for _, n := range g.Nodes {
		fn := kernel.Dispatch(n.Op)
		assert.Require(fn != nil, "graph: no forward kernel registered for op %s", n.Op)
		nth := kernel.TaskCount(n.Op, opt.Threads)

		for _, phase := range []kernel.Phase{kernel.Init, kernel.Compute, kernel.Finalize} {
			b.publish(n, phase, fn, nth)
			fn(kernel.Params{Phase: phase, Ith: 0, Nth: nth}, n)
			b.waitHelpers(helpers)
			b.hasWork.Store(false)
		}
	}

	b.stop.Store(true)
	wg.Wait()
}

func runSequential(n *tensor.Tensor) {
	fn := kernel.Dispatch(n.Op)
	assert.Require(fn != nil, "graph: no forward kernel registered for op %s", n.Op)
	for _, phase := range []kernel.Phase{kernel.Init, kernel.Compute, kernel.Finalize} {
		fn(kernel.Params{Phase: phase, Ith: 0, Nth: 1}, n)
	}
}
