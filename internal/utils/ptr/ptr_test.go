package ptr

import "testing"

func TestTo(t *testing.T) {
	v := 42.5
	p := To(v)
	if p == nil || *p != v {
		t.Fatalf("expected pointer to %v, got %v", v, p)
	}
	if p == &v {
		t.Error("expected different address")
	}
}

func TestDeref(t *testing.T) {
	if got := Deref[float64](nil, 7); got != 7 {
		t.Errorf("expected default 7, got %v", got)
	}
	if got := Deref(Float64(0), 7); got != 0 {
		t.Errorf("expected present zero, got %v", got)
	}
}

func TestClone(t *testing.T) {
	if Clone[float64](nil) != nil {
		t.Error("expected nil clone of nil")
	}
	orig := Float64(3)
	c := Clone(orig)
	*orig = 4
	if *c != 3 {
		t.Errorf("clone should be independent, got %v", *c)
	}
}
