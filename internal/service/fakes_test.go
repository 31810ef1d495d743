package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/events"
	"github.com/phrazzld/dialogcards/internal/store"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDeckStore struct {
	mu        sync.Mutex
	decks     map[uuid.UUID]*domain.Deck
	lastFilter store.DeckFilter
	err        error
}

func newFakeDeckStore(decks ...*domain.Deck) *fakeDeckStore {
	s := &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
	for _, d := range decks {
		s.decks[d.ID] = d
	}
	return s
}

func (s *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.decks[deck.ID]; ok {
		return store.ErrDuplicate
	}
	s.decks[deck.ID] = deck
	return nil
}

func (s *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	deck, ok := s.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (s *fakeDeckStore) List(_ context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		if filter.Mode != "" && d.Mode != filter.Mode {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(s.decks, id)
	return nil
}

type sessionKey struct {
	learner uuid.UUID
	deck    uuid.UUID
}

type fakeSessionStore struct {
	mu      sync.Mutex
	states  map[sessionKey]*domain.SessionState
	saves   int
	saveErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{states: make(map[sessionKey]*domain.SessionState)}
}

func (s *fakeSessionStore) Get(_ context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionKey{learnerID, deckID}]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (s *fakeSessionStore) GetForUpdate(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error) {
	return s.Get(ctx, learnerID, deckID)
}

func (s *fakeSessionStore) Save(_ context.Context, learnerID, deckID uuid.UUID, state *domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.states[sessionKey{learnerID, deckID}] = state.Clone()
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, learnerID, deckID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionKey{learnerID, deckID})
	return nil
}

func (s *fakeSessionStore) WithTx(_ *sql.Tx) store.SessionStore {
	return s
}

func (s *fakeSessionStore) stored(learnerID, deckID uuid.UUID) *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[sessionKey{learnerID, deckID}]
}

// fakeTransactor runs fn directly against the fake store.
type fakeTransactor struct {
	sessions *fakeSessionStore
	calls    int
}

func (t *fakeTransactor) InTransaction(
	ctx context.Context,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	t.calls++
	return fn(ctx, t.sessions)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.ProgressEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.ProgressEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func textCards(n int) []domain.CardDefinition {
	defs := make([]domain.CardDefinition, n)
	for i := range defs {
		defs[i] = domain.CardDefinition{
			Front: domain.Face{Text: "front " + string(rune('A'+i))},
			Back:  domain.BackFace{Face: domain.Face{Text: "back " + string(rune('A'+i))}},
		}
	}
	return defs
}

func newTestDeck(t *testing.T, mode domain.Mode, behaviour domain.Behaviour, n int) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck("Test deck", "", mode, behaviour, textCards(n))
	require.NoError(t, err)
	return deck
}
