package tokenize

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Vector Search!", []string{"vector", "search"}},
		{"  leading/trailing  ", []string{"leading", "trailing"}},
		{"", nil},
		{"a-b_c.d", []string{"a", "b", "c", "d"}},
		{"Swift3 is fun", []string{"swift3", "is", "fun"}},
	}

	for _, c := range cases {
		got := Tokenize(c.in)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	s := "The Quick Brown Fox"
	a := Tokenize(s)
	b := Tokenize(s)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("tokenize should be deterministic")
	}
}
