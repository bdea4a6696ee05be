package viz_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/tensor"
	"github.com/sbl8/ggtensor/viz"
)

func TestDumpDotWritesReadableFile(t *testing.T) {
	a, err := arena.Init(1<<16, nil)
	require.NoError(t, err)
	defer arena.Free(a)
	ctx := tensor.NewContext(a)

	x := ctx.NewTensor1D(dtype.F32, 3)
	y := ops.Sum(ctx, ops.Sqr(ctx, x, ops.Fresh))
	gf := graph.BuildForward(y)

	path := filepath.Join(t.TempDir(), "graph.dot")
	require.NoError(t, viz.DumpDot(nil, gf, path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "digraph")
}
