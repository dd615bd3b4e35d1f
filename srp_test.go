package srp

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/nilekhani/srp6kex/bigfield"
)

func runExchange(t *testing.T, params Params, username, password string) (*Server, *Client) {
	t.Helper()

	identityHash := IdentityHash(username, password)

	server, err := NewServer(params, identityHash, rand.Reader)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	client, err := NewClient(params, identityHash, server.Salt(), rand.Reader)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := server.SetSessionKey(client.PublicKey()); err != nil {
		t.Fatalf("server.SetSessionKey: %v", err)
	}
	if err := client.SetSessionKey(server.PublicKey(), server.Scrambler()); err != nil {
		t.Fatalf("client.SetSessionKey: %v", err)
	}

	return server, client
}

func TestAgreementAcrossPresets(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params Params
	}{
		{"Params6144", Params6144},
		{"ParamsReference", ParamsReference},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server, client := runExchange(t, tc.params, "alice", "correct horse battery staple")

			if server.State() != "key-derived" || client.State() != "key-derived" {
				t.Fatalf("expected both participants key-derived, got server=%s client=%s", server.State(), client.State())
			}
			if !server.SessionKey().Equal(client.SessionKey()) {
				t.Fatalf("server and client session keys disagree:\n server=%s\n client=%s", server.SessionKey().Hex(), client.SessionKey().Hex())
			}
		})
	}
}

func TestPasswordSensitivity(t *testing.T) {
	identityHash := IdentityHash("alice", "correct horse battery staple")
	wrongHash := IdentityHash("alice", "wrong horse battery staple")

	server, err := NewServer(Params6144, identityHash, rand.Reader)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	client, err := NewClient(Params6144, wrongHash, server.Salt(), rand.Reader)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := server.SetSessionKey(client.PublicKey()); err != nil {
		t.Fatalf("server.SetSessionKey: %v", err)
	}
	if err := client.SetSessionKey(server.PublicKey(), server.Scrambler()); err != nil {
		t.Fatalf("client.SetSessionKey: %v", err)
	}

	if server.SessionKey().Equal(client.SessionKey()) {
		t.Fatalf("session keys agreed despite a wrong password")
	}
}

// fixedReader replays a fixed byte stream, for constructing participants
// deterministically from a scripted "random" source.
type fixedReader struct {
	data []byte
}

func (f *fixedReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestConstructionIdempotentGivenFixedRandomness(t *testing.T) {
	identityHash := IdentityHash("alice", "correct horse battery staple")

	script := bytes.Repeat([]byte{0x5a}, 4096)

	s1, err := NewServer(Params6144, identityHash, &fixedReader{data: append([]byte(nil), script...)})
	if err != nil {
		t.Fatalf("NewServer (1): %v", err)
	}
	s2, err := NewServer(Params6144, identityHash, &fixedReader{data: append([]byte(nil), script...)})
	if err != nil {
		t.Fatalf("NewServer (2): %v", err)
	}

	if !s1.PublicKey().Equal(s2.PublicKey()) {
		t.Fatalf("two servers built from the same byte stream produced different public keys")
	}
	if !s1.Salt().Equal(s2.Salt()) {
		t.Fatalf("two servers built from the same byte stream produced different salts")
	}
}

func TestHexRoundTripOfSessionKey(t *testing.T) {
	server, client := runExchange(t, Params6144, "alice", "correct horse battery staple")

	key := server.SessionKey()
	parsed, err := bigfield.FromHex(key.Hex())
	if err != nil {
		t.Fatalf("FromHex(key.Hex()): %v", err)
	}
	if !parsed.Equal(key) {
		t.Fatalf("session key did not survive a hex round trip")
	}
	if !client.SessionKey().Equal(parsed) {
		t.Fatalf("parsed server key does not match client key")
	}
}

// zeroThenRealReader first yields an all-zero draw, forcing the
// resample-on-zero path in internal/randsrc, then falls back to a real
// CSPRNG for every subsequent read.
type zeroThenRealReader struct {
	usedZero bool
}

func (z *zeroThenRealReader) Read(p []byte) (int, error) {
	if !z.usedZero {
		z.usedZero = true
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return rand.Read(p)
}

func TestZeroSaltResampling(t *testing.T) {
	identityHash := IdentityHash("alice", "correct horse battery staple")

	server, err := NewServer(Params6144, identityHash, &zeroThenRealReader{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if server.Salt().Sign() <= 0 {
		t.Fatalf("salt must be strictly positive even when the first draw is all-zero bytes")
	}
}

func TestParamsValidateRejectsBadModulus(t *testing.T) {
	params := Params6144
	params.N = "not hex"

	_, err := NewVerifier(params, "alice", "password", rand.Reader)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput for a malformed modulus, got %v", err)
	}
}

func TestParamsValidateRejectsNonPositiveGenerator(t *testing.T) {
	params := Params6144
	params.G = 0

	_, err := NewVerifier(params, "alice", "password", rand.Reader)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant for g <= 0, got %v", err)
	}
}

func TestSetSessionKeyRejectsSecondCall(t *testing.T) {
	server, client := runExchange(t, Params6144, "alice", "correct horse battery staple")

	if err := server.SetSessionKey(client.PublicKey()); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant on a second SetSessionKey call, got %v", err)
	}
}

func TestVerifierRoundTripThroughServerConstruction(t *testing.T) {
	verifier, err := NewVerifier(Params6144, "alice", "correct horse battery staple", rand.Reader)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	server, err := NewServerFromVerifier(Params6144, verifier, rand.Reader)
	if err != nil {
		t.Fatalf("NewServerFromVerifier: %v", err)
	}

	client, err := NewClient(Params6144, verifier.IdentityHash, server.Salt(), rand.Reader)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := server.SetSessionKey(client.PublicKey()); err != nil {
		t.Fatalf("server.SetSessionKey: %v", err)
	}
	if err := client.SetSessionKey(server.PublicKey(), server.Scrambler()); err != nil {
		t.Fatalf("client.SetSessionKey: %v", err)
	}

	if !server.SessionKey().Equal(client.SessionKey()) {
		t.Fatalf("server and client disagree after reconstructing the server from a Verifier")
	}
}
