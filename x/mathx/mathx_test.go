package mathx

import "testing"

func TestBetween(t *testing.T) {
	if !Between(360, 0, 360) || Between(361, 0, 360) {
		t.Fatal("Between upper bound")
	}
	if !Between(5, 10, 0) {
		t.Fatal("Between should accept swapped bounds")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Fatalf("Clamp = %d", got)
	}
	if got := Clamp(-1, 100, 0); got != 0 {
		t.Fatalf("Clamp swapped = %d", got)
	}
}

func TestRoundDiv(t *testing.T) {
	cases := []struct{ a, b, want uint64 }{
		{28000, 1000, 28},
		{28500, 1000, 29},
		{28499, 1000, 28},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := RoundDiv(c.a, c.b); got != c.want {
			t.Errorf("RoundDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
