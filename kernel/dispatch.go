package kernel

import "github.com/sbl8/ggtensor/tensor"

// ForwardFn is the contract every per-op forward kernel satisfies: it is
// invoked once per worker per phase, and must touch only its assigned
// slice of dst.
type ForwardFn func(p Params, dst *tensor.Tensor)

var dispatch = [int(tensor.OpFlashFF) + 1]ForwardFn{
	tensor.OpNone:         fwdNoop,
	tensor.OpDup:          fwdDup,
	tensor.OpAdd:          fwdAdd,
	tensor.OpSub:          fwdSub,
	tensor.OpMul:          fwdMul,
	tensor.OpDiv:          fwdDiv,
	tensor.OpSqr:          fwdSqr,
	tensor.OpSqrt:         fwdSqrt,
	tensor.OpAbs:          fwdAbs,
	tensor.OpSgn:          fwdSgn,
	tensor.OpNeg:          fwdNeg,
	tensor.OpStep:         fwdStep,
	tensor.OpRelu:         fwdRelu,
	tensor.OpGelu:         fwdGelu,
	tensor.OpSum:          fwdSum,
	tensor.OpMean:         fwdMean,
	tensor.OpRepeat:       fwdRepeat,
	tensor.OpNorm:         fwdNorm,
	tensor.OpMulMat:       fwdMulMat,
	tensor.OpScale:        fwdScale,
	tensor.OpCpy:          fwdCpy,
	tensor.OpReshape:      fwdNoop,
	tensor.OpView:         fwdNoop,
	tensor.OpPermute:      fwdNoop,
	tensor.OpTranspose:    fwdNoop,
	tensor.OpGetRows:      fwdGetRows,
	tensor.OpDiagMaskInf:  fwdDiagMaskInf,
	tensor.OpSoftMax:      fwdSoftMax,
	tensor.OpRope:         fwdRope,
	tensor.OpConv1D1S:     fwdConv1D1S,
	tensor.OpConv1D2S:     fwdConv1D2S,
	tensor.OpFlashAttn:    fwdFlashAttn,
	tensor.OpFlashFF:      fwdFlashFF,
}

// Dispatch returns the forward kernel for op, or nil for an op with no
// registered kernel (NONE leaves never execute).
func Dispatch(op tensor.Op) ForwardFn {
	if int(op) >= len(dispatch) {
		return nil
	}
	return dispatch[op]
}

// TaskCount returns how many worker tasks op should be given, bounded by
// nThreads.
func TaskCount(op tensor.Op, nThreads int) int {
	switch op {
	case tensor.OpSum, tensor.OpMean, tensor.OpCpy, tensor.OpView, tensor.OpReshape,
		tensor.OpPermute, tensor.OpTranspose, tensor.OpGetRows, tensor.OpRope, tensor.OpDup:
		return 1
	default:
		return nThreads
	}
}
