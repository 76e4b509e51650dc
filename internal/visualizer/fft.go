package visualizer

import "math"

// fft performs an in-place radix-2 Cooley-Tukey FFT.
// len(re) and len(im) must be equal and a power of 2.
func fft(re, im []float64) {
	n := len(re)
	if n <= 1 {
		return
	}

	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		theta := -2.0 * math.Pi / float64(size)
		stepR, stepI := math.Cos(theta), math.Sin(theta)
		for start := 0; start < n; start += size {
			wr, wi := 1.0, 0.0
			for k := 0; k < half; k++ {
				a := start + k
				b := a + half
				tr := wr*re[b] - wi*im[b]
				ti := wr*im[b] + wi*re[b]
				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
				wr, wi = wr*stepR-wi*stepI, wr*stepI+wi*stepR
			}
		}
	}
}

// blackmanWindow returns the Blackman window coefficients for n samples
// (alpha = 0.16).
func blackmanWindow(n int) []float64 {
	const alpha = 0.16
	a0 := (1 - alpha) / 2
	a1 := 0.5
	a2 := alpha / 2
	w := make([]float64, n)
	for i := range n {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
