package vectormath

import "testing"

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	n := NormalizeL2(v)
	if math32Abs(n[0]-0.6) > 1e-5 || math32Abs(n[1]-0.8) > 1e-5 {
		t.Fatalf("unexpected normalization: %v", n)
	}
}

func TestNormalizeL2Zero(t *testing.T) {
	v := []float32{0, 0, 0}
	n := NormalizeL2(v)
	for i, x := range n {
		if x != v[i] {
			t.Fatalf("zero vector should be returned unchanged, got %v", n)
		}
	}
}

func TestDotAndCosine(t *testing.T) {
	a := NormalizeL2([]float32{1, 0})
	b := NormalizeL2([]float32{1, 0})
	if got := Cosine(a, b); math32Abs(got-1) > 1e-5 {
		t.Fatalf("expected cosine 1, got %f", got)
	}

	c := NormalizeL2([]float32{0, 1})
	if got := Cosine(a, c); math32Abs(got) > 1e-5 {
		t.Fatalf("expected cosine 0, got %f", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(2, -1, 1) != 1 {
		t.Fatal("expected clamp to upper bound")
	}
	if Clamp(-2, -1, 1) != -1 {
		t.Fatal("expected clamp to lower bound")
	}
}

func math32Abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
