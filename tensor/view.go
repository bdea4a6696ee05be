package tensor

// View1D returns a header aliasing src's data starting at byte offset,
// reshaped to a contiguous 1-D view of ne0 elements.
func (c *Context) View1D(src *Tensor, ne0 int64, offset uintptr) *Tensor {
	v := &Tensor{
		Dtype: src.Dtype,
		NDims: 1,
		NE:    shapeOf(ne0),
		Data:  src.Data[offset:],
		ctx:   c,
	}
	v.NB = contiguousStrides(v.Dtype, v.NE)
	return v
}

// View2D returns a header aliasing src's data starting at byte offset, with
// an explicit row stride nb1 (so the view may stride over a larger buffer
// than its own logical row width, e.g. sub-matrices).
func (c *Context) View2D(src *Tensor, ne0, ne1 int64, nb1 uintptr, offset uintptr) *Tensor {
	v := &Tensor{
		Dtype: src.Dtype,
		NDims: 2,
		NE:    shapeOf(ne0, ne1),
		Data:  src.Data[offset:],
		ctx:   c,
	}
	v.NB[0] = uintptr(v.Dtype.Size())
	v.NB[1] = nb1
	v.NB[2] = nb1 * uintptr(ne1)
	v.NB[3] = v.NB[2]
	return v
}
