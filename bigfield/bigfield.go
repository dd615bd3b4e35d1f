// Package bigfield implements the minimal arbitrary-precision integer
// surface the SRP-6 state machine needs: construction from hex, decimal, or
// a small integer; add, subtract, multiply; modular exponentiation;
// equality and strict-greater comparison; and hex serialization.
//
// The modulus bit-width used by SRP-6 is modest (a few hundred bits), so
// Value is backed directly by math/big rather than a hand-rolled bignum.
package bigfield

import (
	"fmt"
	"math/big"
)

// Value is a representation-independent wrapper over an arbitrary-precision
// integer. Once constructed it is never mutated in place: every operation
// returns a new Value.
type Value struct {
	i *big.Int
}

// Zero is the additive identity.
var Zero = Value{i: big.NewInt(0)}

// FromHex parses s as a hexadecimal integer. A leading "0x"/"0X" is
// tolerated but not required.
func FromHex(s string) (Value, error) {
	n, ok := new(big.Int).SetString(trimHexPrefix(s), 16)
	if !ok {
		return Value{}, fmt.Errorf("bigfield: malformed hex integer %q", s)
	}
	return Value{i: n}, nil
}

// FromDecimal parses s as a signed base-10 integer.
func FromDecimal(s string) (Value, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Value{}, fmt.Errorf("bigfield: malformed decimal integer %q", s)
	}
	return Value{i: n}, nil
}

// FromInt64 builds a Value from a small signed integer.
func FromInt64(v int64) Value {
	return Value{i: big.NewInt(v)}
}

// FromBytes interprets b as an unsigned big-endian integer.
func FromBytes(b []byte) Value {
	return Value{i: new(big.Int).SetBytes(b)}
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	return Value{i: new(big.Int).Add(v.int(), other.int())}
}

// Sub returns v - other. The result may be negative.
func (v Value) Sub(other Value) Value {
	return Value{i: new(big.Int).Sub(v.int(), other.int())}
}

// Mul returns v * other.
func (v Value) Mul(other Value) Value {
	return Value{i: new(big.Int).Mul(v.int(), other.int())}
}

// Mod returns v reduced into [0, modulus), even when v is negative.
func (v Value) Mod(modulus Value) Value {
	return Value{i: new(big.Int).Mod(v.int(), modulus.int())}
}

// ModPow returns v^exp mod modulus. exp must be non-negative and modulus
// must be strictly positive; violating either is a programming error in the
// caller and panics, mirroring math/big's own contract for Exp.
func (v Value) ModPow(exp, modulus Value) Value {
	if exp.Sign() < 0 {
		panic("bigfield: ModPow exponent must be non-negative")
	}
	if modulus.Sign() <= 0 {
		panic("bigfield: ModPow modulus must be positive")
	}
	return Value{i: new(big.Int).Exp(v.int(), exp.int(), modulus.int())}
}

// Equal reports whether v and other denote the same integer.
func (v Value) Equal(other Value) bool {
	return v.int().Cmp(other.int()) == 0
}

// GreaterThan reports whether v > other.
func (v Value) GreaterThan(other Value) bool {
	return v.int().Cmp(other.int()) > 0
}

// Sign returns -1, 0, or 1 depending on whether v is negative, zero, or
// positive.
func (v Value) Sign() int {
	return v.int().Sign()
}

// Hex returns the lowercase hexadecimal representation of v with no
// leading zeros, no separators, and no "0x" prefix. v must be non-negative.
func (v Value) Hex() string {
	return fmt.Sprintf("%x", v.int())
}

// Bytes returns the big-endian unsigned byte representation of v, with no
// leading zero bytes. v must be non-negative.
func (v Value) Bytes() []byte {
	return v.int().Bytes()
}

// int returns the zero big.Int for an unconstructed (zero-value) Value so
// that a Value zero value behaves as the integer zero rather than panicking.
func (v Value) int() *big.Int {
	if v.i == nil {
		return big.NewInt(0)
	}
	return v.i
}
