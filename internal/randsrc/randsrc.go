// Package randsrc draws uniformly distributed integers of a configured
// bit-length from a cryptographic random source, per spec's replacement for
// the reference implementation's per-bit floating-point sampling: draw
// ceil(bits/8) bytes and mask the top byte down to the requested width.
package randsrc

import (
	"fmt"
	"io"

	"github.com/nilekhani/srp6kex/bigfield"
)

// Draw returns a uniformly random value in [0, 2^bits). It consumes exactly
// ceil(bits/8) bytes from src.
func Draw(src io.Reader, bits int) (bigfield.Value, error) {
	if bits <= 0 {
		return bigfield.Value{}, fmt.Errorf("randsrc: bit length must be positive, got %d", bits)
	}

	n := (bits + 7) / 8
	b := make([]byte, n)
	if _, err := io.ReadFull(src, b); err != nil {
		return bigfield.Value{}, fmt.Errorf("randsrc: random source failed: %w", err)
	}

	if extra := n*8 - bits; extra > 0 {
		b[0] &= 0xFF >> uint(extra)
	}

	return bigfield.FromBytes(b), nil
}

// DrawPositive is like Draw but resamples until the result is strictly
// positive, as required by the spec for salt and scrambler values (a
// randomly-drawn all-zero bitstring must not be accepted as-is).
func DrawPositive(src io.Reader, bits int) (bigfield.Value, error) {
	for {
		v, err := Draw(src, bits)
		if err != nil {
			return bigfield.Value{}, err
		}
		if v.Sign() > 0 {
			return v, nil
		}
	}
}
