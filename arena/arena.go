// Package arena implements the engine's bump allocator and the process-wide
// context pool it is handed out from.
//
// A Context owns a single contiguous byte buffer. Every tensor header and
// every tensor data region the caller allocates through it is carved out of
// that buffer by bumping an offset forward; nothing is ever freed
// individually. The whole arena goes away at once when the caller calls
// Free.
package arena

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
)

// MemAlign is the alignment every header and data region is bumped to: 16
// bytes on 64-bit targets, 4 bytes on 32-bit.
const MemAlign = 4 + 12*(bits.UintSize/64)

// MaxContexts bounds the process-wide context pool. Acquiring a context
// beyond this bound returns ErrNoFreeContext rather than growing unbounded.
const MaxContexts = 64

// ErrNoFreeContext is returned by Init when every pool slot is in use.
var ErrNoFreeContext = errors.New("arena: no free context")

// Context is a live arena: a buffer plus a bump offset. It is not safe for
// concurrent allocation — only the thread that built the graph may allocate
// from its arena.
type Context struct {
	buf      []byte
	offset   uintptr
	owns     bool
	objects  int
	noAlloc  bool
}

// Init acquires one process-wide context slot and returns a Context backed
// by buf, or by a freshly allocated memSize-byte buffer when buf is nil.
// The first call into Init (process-wide) also lazily builds the GELU and
// exp F16 lookup tables.
//
// Init returns ErrNoFreeContext, a recoverable result, when the pool is
// exhausted — every other allocation failure inside the returned Context is
// a fatal assertion.
func Init(memSize uintptr, buf []byte) (*Context, error) {
	ensureTables()

	ctx := &Context{}
	if buf != nil {
		ctx.buf = buf
	} else {
		ctx.buf = make([]byte, memSize)
		ctx.owns = true
	}

	poolMu.Lock()
	defer poolMu.Unlock()
	for i := range pool {
		if pool[i] == nil {
			pool[i] = ctx
			return ctx, nil
		}
	}
	return nil, ErrNoFreeContext
}

// Free releases ctx's pool slot. The underlying buffer is left for the
// garbage collector; there is no explicit deallocation step beyond dropping
// the last reference.
func Free(ctx *Context) {
	poolMu.Lock()
	defer poolMu.Unlock()
	for i := range pool {
		if pool[i] == ctx {
			pool[i] = nil
			return
		}
	}
}

// UsedMem reports the number of bytes bumped out of ctx so far.
func (ctx *Context) UsedMem() uintptr {
	return ctx.offset
}

// Cap reports the total capacity of ctx's buffer.
func (ctx *Context) Cap() uintptr {
	return uintptr(len(ctx.buf))
}

// Alloc bump-allocates n bytes aligned to MemAlign and returns the backing
// slice. Running out of arena space is a fatal assertion: callers are
// responsible for sizing the arena up front.
func (ctx *Context) Alloc(n uintptr) []byte {
	aligned := alignUp(ctx.offset, MemAlign)
	end := aligned + n
	reserved := alignUp(end, MemAlign)
	assert.Require(reserved <= uintptr(len(ctx.buf)),
		"arena: out of space: need %d at offset %d, capacity %d", n, aligned, len(ctx.buf))
	ctx.offset = reserved
	ctx.objects++
	region := ctx.buf[aligned:end]
	return region
}

func alignUp(v uintptr, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}

var (
	poolMu sync.Mutex
	pool   [MaxContexts]*Context
)

var (
	tablesOnce sync.Once
	geluTable  *dtype.Table
	expTable   *dtype.Table
)

// ensureTables builds the GELU and exp tables exactly once, in parallel: each
// is a 65536-entry scan independent of the other, so there's no reason to
// pay for both sequentially on every process's first Init call.
func ensureTables() {
	tablesOnce.Do(func() {
		var g errgroup.Group
		g.Go(func() error {
			geluTable = dtype.BuildGELUTable()
			return nil
		})
		g.Go(func() error {
			expTable = dtype.BuildExpTable()
			return nil
		})
		_ = g.Wait()
	})
}

// GELUTable returns the process-wide 65536-entry F16 GELU lookup table,
// building it on first use.
func GELUTable() *dtype.Table {
	ensureTables()
	return geluTable
}

// ExpTable returns the process-wide 65536-entry F16 exp lookup table,
// building it on first use.
func ExpTable() *dtype.Table {
	ensureTables()
	return expTable
}

func init() {
	if MemAlign != 16 && MemAlign != 4 {
		panic(fmt.Sprintf("arena: unexpected MemAlign %d", MemAlign))
	}
}
