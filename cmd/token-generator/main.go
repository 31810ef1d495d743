// Command token-generator mints a learner bearer token for local testing of
// the API.
//
// Usage:
//
//	token-generator [-learner UUID] [-secret SECRET] [-lifetime MINUTES]
//
// The secret defaults to DIALOGCARDS_AUTH_JWT_SECRET.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/service/auth"
)

const secretEnv = config.EnvPrefix + "_AUTH_JWT_SECRET"

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "token-generator:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, out io.Writer) error {
	fs := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	learner := fs.String("learner", "", "learner UUID (random when empty)")
	secret := fs.String("secret", "", "signing secret (defaults to $"+secretEnv+")")
	lifetime := fs.Int("lifetime", 60, "token lifetime in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	learnerID := uuid.New()
	if *learner != "" {
		id, err := uuid.Parse(*learner)
		if err != nil {
			return fmt.Errorf("invalid learner id: %w", err)
		}
		learnerID = id
	}

	if *secret == "" {
		*secret = getenv(secretEnv)
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            *secret,
		TokenLifetimeMinutes: *lifetime,
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(context.Background(), learnerID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Fprintf(out, "learner: %s\ntoken:   %s\n", learnerID, token)
	return nil
}
