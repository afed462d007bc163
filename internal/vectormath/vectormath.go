// Package vectormath implements the flat-loop vector primitives used by the
// hybrid search engine: L2 normalization, dot product, and cosine similarity.
package vectormath

import "math"

// NormalizeL2 returns a copy of v scaled to unit L2 norm. If v has zero norm
// it is returned unchanged (there is no direction to normalize toward).
func NormalizeL2(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Dot computes the dot product of a and b. The caller must ensure len(a) ==
// len(b); behavior is undefined otherwise.
func Dot(a, b []float32) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}

// Cosine computes the dot product of a and b, clamped to [-1, 1]. Intended
// for inputs that are already L2-normalized, in which case the dot product
// equals the cosine similarity up to floating-point error.
func Cosine(a, b []float32) float32 {
	c := Dot(a, b)
	return Clamp(c, -1, 1)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
