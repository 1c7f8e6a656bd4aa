// Package fft implements the power-of-two real-signal FFT kernel and the
// Kaiser window used throughout the filter-design code in internal/dsp/fir,
// internal/dsp/convolver and internal/dsp/resample (spec.md §4.3/§4.4/§4.6
// component #6, "FFT kernel + Kaiser window").
//
// No FFT library appears anywhere in the retrieval corpus, so this kernel
// is built on math/cmplx (documented as a justified stdlib exception in
// DESIGN.md) rather than on an ecosystem dependency.
package fft

import "math/cmplx"

// NextPow2 returns the smallest power of two >= n (spec.md's clp2).
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsPow2 reports whether n is an exact power of two.
func IsPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

// Forward performs an in-place radix-2 Cooley-Tukey FFT. len(a) must be a
// power of two.
func Forward(a []complex128) { transform(a, false) }

// Inverse performs an in-place inverse FFT (including the 1/N scaling).
// len(a) must be a power of two.
func Inverse(a []complex128) {
	transform(a, true)
	n := complex(float64(len(a)), 0)
	for i := range a {
		a[i] /= n
	}
}

func transform(a []complex128, inverse bool) {
	n := len(a)
	if n <= 1 {
		return
	}
	if !IsPow2(n) {
		panic("fft: length must be a power of two")
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for length := 2; length <= n; length <<= 1 {
		angle := sign * 2 * pi / float64(length)
		wLen := cmplx.Rect(1, angle)
		for i := 0; i < n; i += length {
			w := complex(1, 0)
			half := length / 2
			for k := 0; k < half; k++ {
				u := a[i+k]
				v := a[i+k+half] * w
				a[i+k] = u + v
				a[i+k+half] = u - v
				w *= wLen
			}
		}
	}
}

const pi = 3.14159265358979323846

// RealToComplex packs a real slice (zero-padded to n) into a complex buffer
// of length n ready for Forward.
func RealToComplex(x []float64, n int) []complex128 {
	out := make([]complex128, n)
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	return out
}

// Real extracts the real parts of a complex buffer.
func Real(a []complex128) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = real(v)
	}
	return out
}
