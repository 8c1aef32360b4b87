package algebraic

import (
	"math"
	"testing"

	"calcrpc/internal/wire"
)

func TestExponent(t *testing.T) {
	s := New(OverflowSaturate, nil)

	cases := []struct {
		base     float32
		exponent uint32
		want     float32
	}{
		{2, 4, 16},
		{2, 0, 1},
		{0, 0, 1},
		{-3, 3, -27},
		{0.5, 2, 0.25},
		{10, 1, 10},
	}
	for _, c := range cases {
		var reply wire.Result
		err := s.Exponent(&wire.ExponentArgs{Base: c.base, Exponent: c.exponent}, &reply)
		if err != nil {
			t.Errorf("Exponent(%v,%d) error: %v", c.base, c.exponent, err)
			continue
		}
		if reply.Value != c.want {
			t.Errorf("Exponent(%v,%d) = %v, want %v", c.base, c.exponent, reply.Value, c.want)
		}
	}
}

func TestExponentRecurrence(t *testing.T) {
	s := New(OverflowSaturate, nil)
	base := float32(1.5)

	prev := float32(1)
	for e := uint32(1); e <= 20; e++ {
		var reply wire.Result
		if err := s.Exponent(&wire.ExponentArgs{Base: base, Exponent: e}, &reply); err != nil {
			t.Fatalf("Exponent(%v,%d): %v", base, e, err)
		}
		want := prev * base
		if math.Abs(float64(reply.Value-want)) > 1e-3 {
			t.Fatalf("Exponent(%v,%d) = %v, want %v", base, e, reply.Value, want)
		}
		prev = reply.Value
	}
}

func TestFactorial(t *testing.T) {
	s := New(OverflowSaturate, nil)

	cases := []struct {
		n    uint32
		want float32
	}{
		{0, 1},
		{1, 1},
		{5, 120},
		{10, 3628800},
	}
	for _, c := range cases {
		var reply wire.Result
		if err := s.Factorial(&wire.FactorialArgs{N: c.n}, &reply); err != nil {
			t.Errorf("Factorial(%d) error: %v", c.n, err)
			continue
		}
		if reply.Value != c.want {
			t.Errorf("Factorial(%d) = %v, want %v", c.n, reply.Value, c.want)
		}
	}
}

func TestFactorialRecurrence(t *testing.T) {
	s := New(OverflowSaturate, nil)
	for n := uint32(1); n <= 12; n++ {
		var cur, prev wire.Result
		if err := s.Factorial(&wire.FactorialArgs{N: n}, &cur); err != nil {
			t.Fatalf("Factorial(%d): %v", n, err)
		}
		if err := s.Factorial(&wire.FactorialArgs{N: n - 1}, &prev); err != nil {
			t.Fatalf("Factorial(%d): %v", n-1, err)
		}
		if cur.Value != float32(n)*prev.Value {
			t.Errorf("Factorial(%d) = %v, want %v", n, cur.Value, float32(n)*prev.Value)
		}
	}
}

func TestOverflowSaturates(t *testing.T) {
	s := New(OverflowSaturate, nil)
	var reply wire.Result
	if err := s.Factorial(&wire.FactorialArgs{N: 200}, &reply); err != nil {
		t.Fatalf("Factorial(200): %v", err)
	}
	if !math.IsInf(float64(reply.Value), 1) {
		t.Errorf("Factorial(200) = %v, want +Inf", reply.Value)
	}

	if err := s.Exponent(&wire.ExponentArgs{Base: 10, Exponent: 100}, &reply); err != nil {
		t.Fatalf("Exponent(10,100): %v", err)
	}
	if !math.IsInf(float64(reply.Value), 1) {
		t.Errorf("Exponent(10,100) = %v, want +Inf", reply.Value)
	}
}

func TestOverflowFailPolicy(t *testing.T) {
	s := New(OverflowFail, nil)
	var reply wire.Result
	if err := s.Factorial(&wire.FactorialArgs{N: 200}, &reply); err == nil {
		t.Error("Factorial(200) under fail policy: expected error, got nil")
	}
	// Non-overflowing results still succeed.
	if err := s.Factorial(&wire.FactorialArgs{N: 5}, &reply); err != nil {
		t.Errorf("Factorial(5) under fail policy: %v", err)
	}
	if reply.Value != 120 {
		t.Errorf("Factorial(5) = %v, want 120", reply.Value)
	}
}
