// Command srpdemo runs a client and a server SRP-6 participant end to end
// in one process, prints whether they agreed on a session key, and
// optionally round-trips a message through the demo package's AEAD using
// that key. It owns all console output; the srp, bigfield, and sha3
// packages never print or log anything themselves.
package main

import (
	"crypto/rand"
	"fmt"
	"os"

	srp "github.com/nilekhani/srp6kex"
	"github.com/nilekhani/srp6kex/demo"
	"github.com/nilekhani/srp6kex/primegen"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		username  string
		password  string
		preset    string
		message   string
		genBits   int
		genModulo bool
	)

	cmd := &cobra.Command{
		Use:   "srpdemo",
		Short: "Run an SRP-6 client/server exchange and optionally an encrypted round trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams(preset)
			if err != nil {
				return err
			}

			if genModulo {
				n, _, err := primegen.SafePrime(rand.Reader, genBits)
				if err != nil {
					return fmt.Errorf("generating modulus: %w", err)
				}
				params.N = n.Text(16)
				fmt.Fprintf(cmd.OutOrStdout(), "generated %d-bit safe prime modulus: %x\n", genBits, n)
			}

			return runExchange(cmd, params, username, password, message)
		},
	}

	cmd.Flags().StringVar(&username, "user", "alice", "username")
	cmd.Flags().StringVar(&password, "password", "correct horse battery staple", "password")
	cmd.Flags().StringVar(&preset, "params", "6144", "named parameter preset: 6144 or reference")
	cmd.Flags().StringVar(&message, "message", "", "if set, encrypt and decrypt this message using the agreed session key")
	cmd.Flags().IntVar(&genBits, "gen-modulus", 0, "bit length of the fresh safe prime modulus generated when --use-generated-modulus is set")
	cmd.Flags().BoolVar(&genModulo, "use-generated-modulus", false, "require -gen-modulus > 0 and use the generated modulus")

	return cmd
}

func resolveParams(preset string) (srp.Params, error) {
	switch preset {
	case "6144":
		return srp.Params6144, nil
	case "reference":
		return srp.ParamsReference, nil
	default:
		return srp.Params{}, fmt.Errorf("unknown params preset %q (want 6144 or reference)", preset)
	}
}

func runExchange(cmd *cobra.Command, params srp.Params, username, password, message string) error {
	out := cmd.OutOrStdout()

	identityHash := srp.IdentityHash(username, password)

	server, err := srp.NewServer(params, identityHash, rand.Reader)
	if err != nil {
		return fmt.Errorf("server construction: %w", err)
	}

	client, err := srp.NewClient(params, identityHash, server.Salt(), rand.Reader)
	if err != nil {
		return fmt.Errorf("client construction: %w", err)
	}

	if err := server.SetSessionKey(client.PublicKey()); err != nil {
		return fmt.Errorf("server key derivation: %w", err)
	}
	if err := client.SetSessionKey(server.PublicKey(), server.Scrambler()); err != nil {
		return fmt.Errorf("client key derivation: %w", err)
	}

	agree := server.SessionKey().Equal(client.SessionKey())
	fmt.Fprintf(out, "client A = %s\n", client.PublicKey().Hex())
	fmt.Fprintf(out, "server B = %s\n", server.PublicKey().Hex())
	fmt.Fprintf(out, "agreed:    %v\n", agree)

	if !agree {
		return fmt.Errorf("client and server disagree on the session key")
	}

	if message != "" {
		key := demo.SessionKey(client.SessionKey())
		ciphertext, err := demo.Seal(key, []byte(message), nil)
		if err != nil {
			return fmt.Errorf("sealing demo message: %w", err)
		}

		plaintext, err := demo.Open(demo.SessionKey(server.SessionKey()), ciphertext, nil)
		if err != nil {
			return fmt.Errorf("opening demo message: %w", err)
		}

		fmt.Fprintf(out, "ciphertext: %x\n", ciphertext)
		fmt.Fprintf(out, "recovered:  %s\n", plaintext)
	}

	return nil
}
