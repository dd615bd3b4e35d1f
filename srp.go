// Package srp implements SRP-6 (fixed multiplier k = 3) as an augmented
// password-authenticated key agreement: a client holding a username and
// password and a server holding a verifier derived from those credentials
// jointly compute a shared session key without the password, or anything
// from which it could be recovered, ever crossing the wire.
//
// Identity hashing and all salted hashing use this module's own from-
// scratch SHA3-256 (package sha3), never a platform hash. The minimal
// modular-arithmetic surface the state machine needs lives in package
// bigfield.
//
// Conventions:
//
//	N    shared safe prime modulus; all arithmetic is mod N
//	g    generator mod N
//	k    multiplier, fixed at 3 (SRP-6, not SRP-6a's H(N,g) derivation)
//	s    salt
//	x    identity hash, an integer derived from salt + credentials
//	v    password verifier, g^x mod N
//	u    scrambler
//	a,b  ephemeral private keys (client, server)
//	A,B  ephemeral public keys (client, server)
//	K    session key
//
// A Participant is constructed once per role, completes a single
// SetSessionKey transition once it learns the counterpart's public value,
// and is read-only thereafter. Client and Server are the two role-specific
// views callers actually construct.
package srp

import (
	"errors"
	"fmt"
	"io"

	"github.com/nilekhani/srp6kex/bigfield"
	"github.com/nilekhani/srp6kex/internal/codec"
	"github.com/nilekhani/srp6kex/internal/randsrc"
	"github.com/nilekhani/srp6kex/sha3"
)

// The three error kinds this package distinguishes. Wrap one of these with
// fmt.Errorf's %w so callers can errors.Is against a kind without
// string-matching a message.
var (
	// ErrInvariant marks an internal inconsistency: a zero or negative
	// field that must be positive after construction, or a transition
	// attempted twice. Treated as a programming bug in the caller.
	ErrInvariant = errors.New("srp: invariant violation")

	// ErrInput marks a malformed caller-supplied value: an unparseable
	// modulus, a non-positive configured bit-length, and so on. Reported
	// only at construction, never during key derivation.
	ErrInput = errors.New("srp: invalid input")

	// ErrResource marks failure of an external resource the core depends
	// on — in practice, the randomness source running dry.
	ErrResource = errors.New("srp: resource error")
)

// Params collects the tunable parameters two parties must agree on out of
// band before running SRP-6: the shared group (N, g) and the bit-lengths of
// the values each role draws at random.
type Params struct {
	N                 string // modulus, hexadecimal, no "0x" prefix required
	G                 int64  // generator
	SaltBits          int    // bit-length of the server's random salt
	ScramblerBits     int    // bit-length of the server's random scrambler
	ServerPrivateBits int    // bit-length of the server's private key b
	ClientPrivateBits int    // bit-length of the client's private key a
}

// Params6144 is a named preset pairing a 256-bit safe prime with g=3.
var Params6144 = Params{
	N:                 "806a33a9948f5f300a801a097548fd49dead0921dca895ed6d503954f71800eb",
	G:                 3,
	SaltBits:          256,
	ScramblerBits:     128,
	ServerPrivateBits: 256,
	ClientPrivateBits: 128,
}

// ParamsReference is a second named preset, with a larger generator and
// wider salt/scrambler, exercising agreement against a different safe
// prime than Params6144.
var ParamsReference = Params{
	N:                 "e83e9762df63bbe6a0ef13a4945d941b4da22d8bcffc35e6e22365de601360bb",
	G:                 10,
	SaltBits:          512,
	ScramblerBits:     256,
	ServerPrivateBits: 256,
	ClientPrivateBits: 128,
}

// validate parses N and g and checks every invariant required of a freshly
// constructed participant: 0 < g < N, 0 < k < N, and the bit-length fields
// are all positive.
func (p Params) validate() (n, g, k bigfield.Value, err error) {
	n, perr := bigfield.FromHex(p.N)
	if perr != nil {
		return bigfield.Value{}, bigfield.Value{}, bigfield.Value{}, fmt.Errorf("srp: malformed modulus %q: %v: %w", p.N, perr, ErrInput)
	}
	if n.Sign() <= 0 {
		return bigfield.Value{}, bigfield.Value{}, bigfield.Value{}, fmt.Errorf("srp: modulus must be positive: %w", ErrInvariant)
	}

	g = bigfield.FromInt64(p.G)
	if g.Sign() <= 0 || !n.GreaterThan(g) {
		return bigfield.Value{}, bigfield.Value{}, bigfield.Value{}, fmt.Errorf("srp: generator must satisfy 0 < g < N: %w", ErrInvariant)
	}

	k = bigfield.FromInt64(3)
	if k.Sign() <= 0 || !n.GreaterThan(k) {
		return bigfield.Value{}, bigfield.Value{}, bigfield.Value{}, fmt.Errorf("srp: multiplier must satisfy 0 < k < N: %w", ErrInvariant)
	}

	if p.SaltBits <= 0 || p.ScramblerBits <= 0 || p.ServerPrivateBits <= 0 || p.ClientPrivateBits <= 0 {
		return bigfield.Value{}, bigfield.Value{}, bigfield.Value{}, fmt.Errorf("srp: bit-length parameters must be positive: %w", ErrInput)
	}

	return n, g, k, nil
}

// draw and drawPositive wrap internal/randsrc, translating its failures
// into ErrResource so callers only ever see this package's three kinds.
func draw(rng io.Reader, bits int) (bigfield.Value, error) {
	v, err := randsrc.Draw(rng, bits)
	if err != nil {
		return bigfield.Value{}, fmt.Errorf("%v: %w", err, ErrResource)
	}
	return v, nil
}

func drawPositive(rng io.Reader, bits int) (bigfield.Value, error) {
	v, err := randsrc.DrawPositive(rng, bits)
	if err != nil {
		return bigfield.Value{}, fmt.Errorf("%v: %w", err, ErrResource)
	}
	return v, nil
}

// IdentityHash returns SHA3-256 of the UTF-16LE encoding of
// "username:password", the value both roles' constructors take as the
// credential-derived identityHash.
func IdentityHash(username, password string) [32]byte {
	return sha3.Sum256(codec.IdentityBytes(username, password))
}

// identityValue computes x = H(salt, identityHash) =
// SHA3-256(be_bytes(salt) || identityHash), interpreted as a big-endian
// unsigned integer. This resolves the byte-ordering open question:
// big-endian throughout, with bigfield.Value.Hex walking low-address-first
// (see DESIGN.md).
func identityValue(salt bigfield.Value, identityHash [32]byte) bigfield.Value {
	buf := make([]byte, 0, len(salt.Bytes())+len(identityHash))
	buf = append(buf, salt.Bytes()...)
	buf = append(buf, identityHash[:]...)
	digest := sha3.Sum256(buf)
	return bigfield.FromBytes(digest[:])
}

// state is the lifecycle a Participant progresses through: initialized
// after construction, keyDerived after its single SetSessionKey
// transition. There is no mutation after keyDerived.
type state int

const (
	stateInitialized state = iota
	stateKeyDerived
)

func (s state) String() string {
	if s == stateKeyDerived {
		return "key-derived"
	}
	return "initialized"
}

// role distinguishes which side of the exchange a Participant plays.
type role int

const (
	roleServer role = iota
	roleClient
)

// Participant is the single role-tagged value behind both Client and
// Server: one field set rather than a client/server inheritance
// hierarchy.
type Participant struct {
	role  role
	state state

	n, g, k bigfield.Value

	salt bigfield.Value // s
	x    bigfield.Value // identity hash integer
	v    bigfield.Value // verifier; meaningful for roleServer only

	priv bigfield.Value // a (client) or b (server)
	pub  bigfield.Value // A (client) or B (server)
	u    bigfield.Value // scrambler; server draws it, client receives it

	key bigfield.Value // K, valid once state == stateKeyDerived
}

// Server is a server-role Participant: it derives a verifier and a fresh
// salt/scrambler pair at construction and completes its session key once
// it learns the client's public key A.
type Server struct {
	p *Participant
}

// NewServer runs the server's half of construction: draw salt and
// scrambler, derive x and the verifier v, draw the ephemeral private key
// b, and compute the public key B.
func NewServer(params Params, identityHash [32]byte, rng io.Reader) (*Server, error) {
	n, g, k, err := params.validate()
	if err != nil {
		return nil, err
	}

	salt, err := drawPositive(rng, params.SaltBits)
	if err != nil {
		return nil, err
	}
	scrambler, err := drawPositive(rng, params.ScramblerBits)
	if err != nil {
		return nil, err
	}

	x := identityValue(salt, identityHash)
	v := g.ModPow(x, n)

	b, err := draw(rng, params.ServerPrivateBits)
	if err != nil {
		return nil, err
	}

	// B = (k*v + g^b) mod N
	pub := k.Mul(v).Add(g.ModPow(b, n)).Mod(n)

	return &Server{p: &Participant{
		role:  roleServer,
		state: stateInitialized,
		n:     n, g: g, k: k,
		salt: salt, x: x, v: v,
		priv: b, pub: pub, u: scrambler,
	}}, nil
}

// NewServerFromVerifier constructs a server Participant reusing a
// previously derived Verifier's salt and v instead of deriving them fresh.
// The scrambler and ephemeral keypair are still drawn fresh from rng for
// this session.
func NewServerFromVerifier(params Params, verifier *Verifier, rng io.Reader) (*Server, error) {
	n, g, k, err := params.validate()
	if err != nil {
		return nil, err
	}

	scrambler, err := drawPositive(rng, params.ScramblerBits)
	if err != nil {
		return nil, err
	}
	b, err := draw(rng, params.ServerPrivateBits)
	if err != nil {
		return nil, err
	}

	pub := k.Mul(verifier.V).Add(g.ModPow(b, n)).Mod(n)

	return &Server{p: &Participant{
		role:  roleServer,
		state: stateInitialized,
		n:     n, g: g, k: k,
		salt: verifier.Salt, x: bigfield.Zero, v: verifier.V,
		priv: b, pub: pub, u: scrambler,
	}}, nil
}

// PublicKey returns B.
func (s *Server) PublicKey() bigfield.Value { return s.p.pub }

// Salt returns the salt the server drew (or reused from a Verifier) for
// this exchange; the caller sends it to the client alongside B.
func (s *Server) Salt() bigfield.Value { return s.p.salt }

// Scrambler returns u; the caller sends it to the client alongside B. This
// design has the server draw u at construction rather than derive it from
// H(A, B), so it must be transmitted explicitly (see DESIGN.md).
func (s *Server) Scrambler() bigfield.Value { return s.p.u }

// State reports whether the session key has been derived yet.
func (s *Server) State() string { return s.p.state.String() }

// SetSessionKey completes the server's key derivation given the client's
// public key A:
//
//	K = (A * v^u mod N)^b mod N
//
// It is the server's single mutating transition and may be called only
// once.
func (s *Server) SetSessionKey(clientPublicKey bigfield.Value) error {
	p := s.p
	if p.state != stateInitialized {
		return fmt.Errorf("srp: server session key already derived: %w", ErrInvariant)
	}

	vu := p.v.ModPow(p.u, p.n)
	base := clientPublicKey.Mul(vu).Mod(p.n)
	p.key = base.ModPow(p.priv, p.n)
	p.state = stateKeyDerived
	return nil
}

// SessionKey returns K. Valid only once State reports "key-derived".
func (s *Server) SessionKey() bigfield.Value { return s.p.key }

// Client is a client-role Participant: it derives its ephemeral keypair
// and identity hash at construction from a salt it has already received
// from the server, and completes its session key once it learns the
// server's public key B and scrambler u.
type Client struct {
	p *Participant
}

// NewClient runs the client's half of construction given the salt the
// server sent: draw the ephemeral private key a, compute the public key
// A, and derive x.
func NewClient(params Params, identityHash [32]byte, salt bigfield.Value, rng io.Reader) (*Client, error) {
	n, g, k, err := params.validate()
	if err != nil {
		return nil, err
	}
	if salt.Sign() <= 0 {
		return nil, fmt.Errorf("srp: salt must be positive: %w", ErrInvariant)
	}

	a, err := draw(rng, params.ClientPrivateBits)
	if err != nil {
		return nil, err
	}
	pub := g.ModPow(a, n)
	x := identityValue(salt, identityHash)

	return &Client{p: &Participant{
		role:  roleClient,
		state: stateInitialized,
		n:     n, g: g, k: k,
		salt: salt, x: x,
		priv: a, pub: pub,
	}}, nil
}

// PublicKey returns A.
func (c *Client) PublicKey() bigfield.Value { return c.p.pub }

// State reports whether the session key has been derived yet.
func (c *Client) State() string { return c.p.state.String() }

// SetSessionKey completes the client's key derivation given the server's
// public key B and scrambler u:
//
//	K = (B - k*(g^x mod N))^(a + u*x) mod N
//
// The subtraction is over integers and reduced into [0, N) before the
// exponentiation. It is the client's single mutating transition and may
// be called only once.
func (c *Client) SetSessionKey(serverPublicKey, scrambler bigfield.Value) error {
	p := c.p
	if p.state != stateInitialized {
		return fmt.Errorf("srp: client session key already derived: %w", ErrInvariant)
	}
	if scrambler.Sign() <= 0 {
		return fmt.Errorf("srp: scrambler must be positive: %w", ErrInvariant)
	}
	p.u = scrambler

	gx := p.g.ModPow(p.x, p.n)
	base := serverPublicKey.Sub(p.k.Mul(gx)).Mod(p.n)
	exponent := p.priv.Add(p.u.Mul(p.x))
	p.key = base.ModPow(exponent, p.n)
	p.state = stateKeyDerived
	return nil
}

// SessionKey returns K. Valid only once State reports "key-derived".
func (c *Client) SessionKey() bigfield.Value { return c.p.key }

// Verifier bundles the values a server needs to run a session for one
// credential: the identity hash, the salt used to derive it, and the
// verifier v = g^x mod N. It exists only to pass a freshly derived
// verifier from a registration step to a server-construction step within
// one process; it is never serialized to or read from any persistence
// layer.
type Verifier struct {
	IdentityHash [32]byte
	Salt         bigfield.Value
	V            bigfield.Value
}

// NewVerifier derives a fresh Verifier for (username, password) under
// params, drawing a new salt from rng.
func NewVerifier(params Params, username, password string, rng io.Reader) (*Verifier, error) {
	n, g, _, err := params.validate()
	if err != nil {
		return nil, err
	}

	salt, err := drawPositive(rng, params.SaltBits)
	if err != nil {
		return nil, err
	}

	identityHash := IdentityHash(username, password)
	x := identityValue(salt, identityHash)
	v := g.ModPow(x, n)

	return &Verifier{IdentityHash: identityHash, Salt: salt, V: v}, nil
}
