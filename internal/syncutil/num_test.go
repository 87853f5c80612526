package syncutil

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		x, low, high, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.x, c.low, c.high); got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.x, c.low, c.high, got, c.want)
		}
	}
}

func TestAbs(t *testing.T) {
	if got := Abs(-3.5); got != 3.5 {
		t.Errorf("Abs(-3.5) = %v, want 3.5", got)
	}
	if got := Abs(3.5); got != 3.5 {
		t.Errorf("Abs(3.5) = %v, want 3.5", got)
	}
	if got := Abs(-4); got != 4 {
		t.Errorf("Abs(-4) = %v, want 4", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 20); got != 10 {
		t.Errorf("Lerp(0, 10, 20) = %v, want 10", got)
	}
	if got := Lerp(1, 10, 20); got != 20 {
		t.Errorf("Lerp(1, 10, 20) = %v, want 20", got)
	}
	if got := Lerp(0.5, 10, 20); got != 15 {
		t.Errorf("Lerp(0.5, 10, 20) = %v, want 15", got)
	}
}

func TestSign(t *testing.T) {
	if Sign(5) != 1 {
		t.Errorf("Sign(5) != 1")
	}
	if Sign(-5) != -1 {
		t.Errorf("Sign(-5) != -1")
	}
	if Sign(0) != 0 {
		t.Errorf("Sign(0) != 0")
	}
}
