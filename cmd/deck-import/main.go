// Command deck-import loads decks authored as YAML files into the database.
//
// Usage:
//
//	deck-import [-dry-run] FILE...
//
// A file may hold several decks as separate YAML documents. With -dry-run
// the decks are validated and nothing is stored.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/platform/postgres"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/service"
)

const pingTimeout = 5 * time.Second

// deckCreator is the part of service.DeckService the importer needs.
type deckCreator interface {
	CreateDeck(ctx context.Context, input service.CreateDeckInput) (*domain.Deck, error)
}

type cliOptions struct {
	dryRun bool
	files  []string
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("deck-import", flag.ContinueOnError)
	fs.BoolVar(&opts.dryRun, "dry-run", false, "validate the decks without storing them")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		return opts, errors.New("at least one deck file is required")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "deck-import:", err)
		}
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "deck-import:", redact.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts cliOptions, out io.Writer) error {
	if opts.dryRun {
		return importFiles(ctx, opts.files, dryRunCreator{}, out)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("failed to close database", redact.ErrorAttr(err))
		}
	}()

	decks, err := service.NewDeckService(postgres.NewPostgresDeckStore(db, l), l)
	if err != nil {
		return fmt.Errorf("failed to create deck service: %w", err)
	}

	l.Debug("importing decks", slog.Int("files", len(opts.files)))
	return importFiles(ctx, opts.files, decks, out)
}

func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// importFiles imports every file and reports all failures together. A
// failing file does not stop the files after it.
func importFiles(ctx context.Context, paths []string, creator deckCreator, out io.Writer) error {
	var errs []error
	for _, path := range paths {
		if err := importFile(ctx, path, creator, out); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func importFile(ctx context.Context, path string, creator deckCreator, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	inputs, err := decodeDecks(f)
	if err != nil {
		return err
	}

	for i, input := range inputs {
		deck, err := creator.CreateDeck(ctx, input)
		if err != nil {
			return fmt.Errorf("deck %d (%q): %w", i+1, input.Title, err)
		}
		fmt.Fprintf(out, "%s\t%s\t%d cards\t%s\n", deck.ID, deck.Mode, len(deck.Cards), deck.Title)
	}
	return nil
}

// dryRunCreator applies the same validation as the deck service without a
// store behind it.
type dryRunCreator struct{}

func (dryRunCreator) CreateDeck(_ context.Context, input service.CreateDeckInput) (*domain.Deck, error) {
	behaviour := domain.DefaultBehaviour()
	if input.Behaviour != nil {
		behaviour = *input.Behaviour
	}

	deck, err := domain.NewDeck(input.Title, input.Description, input.Mode, behaviour, input.Cards)
	if err != nil {
		return nil, domain.NewValidationError("deck", err.Error(), err)
	}
	return deck, nil
}
