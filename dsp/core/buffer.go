package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Interleave writes left and right into dst as L/R frames and returns dst.
// dst is grown when it is shorter than 2*min(len(left), len(right)).
func Interleave(dst, left, right []float64) []float64 {
	n := min(len(left), len(right))
	dst = EnsureLen(dst, 2*n)
	for i := range n {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return dst
}
