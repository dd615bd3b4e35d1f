package primegen

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestSafePrimeShape(t *testing.T) {
	const bits = 64

	n, q, err := SafePrime(rand.Reader, bits)
	if err != nil {
		t.Fatalf("SafePrime: %v", err)
	}

	if !n.ProbablyPrime(20) {
		t.Fatalf("N is not prime: %x", n)
	}
	if !q.ProbablyPrime(20) {
		t.Fatalf("q is not prime: %x", q)
	}

	want := new(big.Int).Lsh(q, 1)
	want.Add(want, big.NewInt(1))
	if n.Cmp(want) != 0 {
		t.Fatalf("N != 2q+1: N=%x, q=%x", n, q)
	}

	if n.BitLen() != bits {
		t.Fatalf("N has bit length %d, want %d", n.BitLen(), bits)
	}
}

func TestSafePrimeRejectsTooSmallBitLength(t *testing.T) {
	if _, _, err := SafePrime(rand.Reader, 4); err == nil {
		t.Fatalf("expected an error for a too-small bit length")
	}
}
