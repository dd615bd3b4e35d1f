// Package sha3 implements SHA3-256 (Keccak-f[1600] with FIPS 202 multi-rate
// padding) from first principles, without recourse to any platform hash
// implementation. It exposes both a one-shot Sum256 function and a
// streaming hash.Hash, both built over a single Keccak-f permutation.
package sha3

import (
	"encoding/binary"
	"hash"
)

const (
	// rate is the portion of the 1600-bit state XOR'd with input each
	// block: 1088 bits == 136 bytes == 17 lanes.
	rate = 136

	// outputSize is the fixed SHA3-256 digest length in bytes.
	outputSize = 32

	// dsbyte is the domain-separation suffix for SHA3 (as opposed to
	// SHAKE, which uses 0x1f).
	dsbyte = 0x06

	rounds = 24
)

// roundConstants are the 24 ι-step constants from FIPS 202 Appendix B.
var roundConstants = [rounds]uint64{
	0x0000000000000001, 0x0000000000008082,
	0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001,
	0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088,
	0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B,
	0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080,
	0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080,
	0x0000000080000001, 0x8000000080008008,
}

// rhoOffsets are the ρ-step rotation amounts, indexed by 5*y + x.
var rhoOffsets = [25]uint{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// rotl64 rotates v left by n bits, n taken modulo 64. n == 0 is handled
// explicitly because a shift by 64 is undefined in Go.
func rotl64(v uint64, n uint) uint64 {
	n %= 64
	if n == 0 {
		return v
	}
	return (v << n) | (v >> (64 - n))
}

// keccakF applies the 24-round Keccak-f[1600] permutation in place to a,
// a flattened 5x5 state with lane (y, x) at index 5*y+x.
func keccakF(a *[25]uint64) {
	var c [5]uint64
	var d [5]uint64
	var b [25]uint64

	for round := 0; round < rounds; round++ {
		// theta
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[5+x] ^ a[10+x] ^ a[15+x] ^ a[20+x]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ rotl64(c[(x+1)%5], 1)
		}
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				a[5*y+x] ^= d[x]
			}
		}

		// rho + pi, combined: new[(2x+3y)%5][y] = rotl64(old[y][x], RHO[5y+x])
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				src := 5*y + x
				dst := 5*((2*x+3*y)%5) + y
				b[dst] = rotl64(a[src], rhoOffsets[src])
			}
		}

		// chi
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				a[5*y+x] = b[5*y+x] ^ (^b[5*y+(x+1)%5] & b[5*y+(x+2)%5])
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}
}

// digest is the shared streaming state behind both New and Sum256.
type digest struct {
	a   [25]uint64
	buf [rate]byte
	pos int
}

// New returns a fresh SHA3-256 hash.Hash.
func New() hash.Hash {
	return new(digest)
}

func (d *digest) Reset() {
	d.a = [25]uint64{}
	d.buf = [rate]byte{}
	d.pos = 0
}

func (d *digest) Size() int      { return outputSize }
func (d *digest) BlockSize() int { return rate }

func (d *digest) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		room := rate - d.pos
		take := room
		if take > len(p) {
			take = len(p)
		}
		copy(d.buf[d.pos:], p[:take])
		d.pos += take
		p = p[take:]
		if d.pos == rate {
			d.absorb()
		}
	}
	return n, nil
}

// absorb XORs the 136-byte buffer into the first 17 lanes of the state as
// little-endian 64-bit words, then runs the permutation, then clears the
// buffer for the next block.
func (d *digest) absorb() {
	for i := 0; i < rate/8; i++ {
		d.a[i] ^= binary.LittleEndian.Uint64(d.buf[i*8:])
	}
	keccakF(&d.a)
	d.buf = [rate]byte{}
	d.pos = 0
}

// Sum appends the SHA3-256 digest of everything written so far to b and
// returns the result, without modifying the receiver's state (per the
// hash.Hash contract, a caller may keep writing after calling Sum).
func (d *digest) Sum(b []byte) []byte {
	dup := *d
	dup.pad()
	dup.absorb()

	out := make([]byte, outputSize)
	for i := 0; i < outputSize/8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], dup.a[i])
	}
	return append(b, out...)
}

// pad applies SHA3's pad10*1 multi-rate padding to the final partial block:
// a 0x06 domain-separator byte at the current write position, OR'd with a
// terminating 0x80 at the last byte of the block. When those two positions
// coincide (pos == rate-1) the single byte becomes 0x06 | 0x80 == 0x86.
func (d *digest) pad() {
	d.buf[d.pos] ^= dsbyte
	d.buf[rate-1] ^= 0x80
}

// Sum256 computes the SHA3-256 digest of data in one call.
func Sum256(data []byte) [32]byte {
	var d digest
	d.Write(data)
	var out [32]byte
	copy(out[:], d.Sum(nil))
	return out
}
