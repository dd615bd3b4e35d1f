// Package codec owns the one piece of text encoding the SRP-6 identity
// derivation depends on: combining a username and password into the
// UTF-16LE byte string that feeds the identity hash.
package codec

// IdentityBytes returns the UTF-16LE encoding (two bytes per UTF-16 code
// unit, low byte first, no BOM) of "username:password". Per spec, this encoding must
// be reproduced exactly bit-for-bit even for ASCII input, since it is
// observable through the verifier: a UTF-8 encoding of the same string
// would hash to a different identity.
func IdentityBytes(username, password string) []byte {
	s := username + ":" + password
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, byte(r), byte(r>>8))
			continue
		}
		// Outside the BMP: encode as a UTF-16 surrogate pair, low byte first.
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
	}
	return out
}
