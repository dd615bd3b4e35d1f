// Package primegen generates fresh safe primes (N = 2q+1, q prime) for
// callers who want an SRP modulus of their own bit length rather than one
// of the fixed presets in package srp. It is a collaborator: srp.go never
// calls it, and it is wired only from the demo CLI's -gen-modulus flag.
package primegen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// safePrimeAttempts bounds how many candidate primes SafePrime will try
// before giving up, so a caller can't block forever on an unlucky bit
// length.
const safePrimeAttempts = 4096

// SafePrime generates a safe prime N = 2q+1 of exactly bits length, where
// both N and q are prime. It draws candidates from rng (normally
// crypto/rand.Reader) and tests primality with (*big.Int).ProbablyPrime.
func SafePrime(rng io.Reader, bits int) (N, q *big.Int, err error) {
	if bits < 8 {
		return nil, nil, fmt.Errorf("primegen: bit length %d too small for a safe prime", bits)
	}

	for attempt := 0; attempt < safePrimeAttempts; attempt++ {
		candidate, err := rand.Prime(rng, bits-1)
		if err != nil {
			return nil, nil, fmt.Errorf("primegen: drawing candidate: %w", err)
		}

		n := new(big.Int).Lsh(candidate, 1)
		n.Add(n, big.NewInt(1))

		if n.ProbablyPrime(20) {
			return n, candidate, nil
		}
	}

	return nil, nil, fmt.Errorf("primegen: no safe prime found in %d attempts at %d bits", safePrimeAttempts, bits)
}
