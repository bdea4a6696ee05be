package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
)

func TestInitFreeRoundTrip(t *testing.T) {
	ctx, err := arena.Init(1<<16, nil)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	defer arena.Free(ctx)

	require.EqualValues(t, 0, ctx.UsedMem())
	require.EqualValues(t, 1<<16, ctx.Cap())
}

func TestAllocBumpsOffsetAndAligns(t *testing.T) {
	ctx, err := arena.Init(1<<12, nil)
	require.NoError(t, err)
	defer arena.Free(ctx)

	a := ctx.Alloc(3)
	require.Len(t, a, 3)
	b := ctx.Alloc(5)
	require.Len(t, b, 5)
	require.EqualValues(t, 0, ctx.UsedMem()%arena.MemAlign)
}

func TestAllocOutOfSpacePanics(t *testing.T) {
	ctx, err := arena.Init(8, nil)
	require.NoError(t, err)
	defer arena.Free(ctx)

	require.Panics(t, func() {
		ctx.Alloc(1 << 20)
	})
}

func TestNoFreeContextWhenPoolExhausted(t *testing.T) {
	var acquired []*arena.Context
	for i := 0; i < arena.MaxContexts; i++ {
		ctx, err := arena.Init(64, nil)
		require.NoError(t, err)
		acquired = append(acquired, ctx)
	}
	defer func() {
		for _, ctx := range acquired {
			arena.Free(ctx)
		}
	}()

	_, err := arena.Init(64, nil)
	require.ErrorIs(t, err, arena.ErrNoFreeContext)
}
