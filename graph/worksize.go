package graph

import "github.com/sbl8/ggtensor/tensor"

// SizeWorkBuffer computes g.WorkSize as the maximum per-node scratch
// requirement across g.Nodes. This
// build's forward kernels allocate their own local scratch rather than
// slicing a shared buffer, so WorkSize is informational —
// it reports what a shared-buffer backend would need to reserve.
func SizeWorkBuffer(g *Graph) {
	var max uintptr
	for _, n := range g.Nodes {
		nTasks := uintptr(g.NThreads)
		if nTasks == 0 {
			nTasks = 1
		}
		var need uintptr
		switch n.Op {
		case tensor.OpMulMat:
			need = n.Nbytes() * nTasks
		case tensor.OpConv1D1S, tensor.OpConv1D2S:
			nk := uintptr(n.Src0.NE[0])
			ne01 := uintptr(n.Src0.NE[1])
			ne02 := uintptr(n.Src0.NE[2])
			ne10 := uintptr(n.Src1.NE[0])
			ne11 := uintptr(n.Src1.NE[1])
			pad32 := func(v uintptr) uintptr { return (v + 31) &^ 31 }
			need = 4 * (nk*pad32(ne01)*ne02 + (2*(nk/2)+ne10)*ne11)
		case tensor.OpFlashAttn, tensor.OpFlashFF:
			need = 2 * 4 * uintptr(n.Src1.NE[1]) * nTasks
		}
		if need > max {
			max = need
		}
	}
	g.WorkSize = max
}
