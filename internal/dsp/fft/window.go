package fft

import "math"

// Sinc is the unnormalized sinc function sin(x)/x, with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

// besselI0 is the modified Bessel function of the first kind, order zero,
// evaluated via its standard power series (converges quickly for the
// x ranges Kaiser windows need, |x| well under 50).
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfX := x / 2
	for k := 1; k < 40; k++ {
		term *= (halfX / float64(k))
		t := term * term
		sum += t
		if t < sum*1e-16 {
			break
		}
	}
	return sum
}

// KaiserAlpha maps a stopband attenuation (dB) to the Kaiser window shape
// parameter alpha (spec.md §4.3).
func KaiserAlpha(aDB float64) float64 {
	switch {
	case aDB > 50:
		return 0.1102 * (aDB - 8.7)
	case aDB >= 21:
		return 0.5842*math.Pow(aDB-21, 0.4) + 0.07886*(aDB-21)
	default:
		return 0
	}
}

// KaiserN computes the Kaiser filter length estimate of spec.md §4.3:
// kaiser-N(a, df) = ceil((a - 7.95) / (14.36*df)) + 1.
func KaiserN(aDB, df float64) int {
	n := math.Ceil((aDB-7.95)/(14.36*df)) + 1
	if n < 1 {
		n = 1
	}
	return int(n)
}

// MakeOdd rounds n up to the next odd value (linear-phase type-1 FIR
// requires an odd tap count, spec.md §3 FIR instance).
func MakeOdd(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// KaiserWindow returns a length-n Kaiser window with shape parameter alpha.
func KaiserWindow(n int, alpha float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	denom := besselI0(alpha)
	m := float64(n - 1)
	for i := 0; i < n; i++ {
		r := 2*float64(i)/m - 1 // maps i in [0,n) to [-1,1]
		arg := alpha * math.Sqrt(1-r*r)
		w[i] = besselI0(arg) / denom
	}
	return w
}
