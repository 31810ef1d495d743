package api

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/service"
	"github.com/phrazzld/dialogcards/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockDeckService struct {
	mock.Mock
}

func (m *mockDeckService) CreateDeck(ctx context.Context, input service.CreateDeckInput) (*domain.Deck, error) {
	args := m.Called(ctx, input)
	deck, _ := args.Get(0).(*domain.Deck)
	return deck, args.Error(1)
}

func (m *mockDeckService) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	deck, _ := args.Get(0).(*domain.Deck)
	return deck, args.Error(1)
}

func (m *mockDeckService) ListDecks(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	args := m.Called(ctx, filter)
	decks, _ := args.Get(0).([]*domain.Deck)
	return decks, args.Error(1)
}

func (m *mockDeckService) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) GetSession(ctx context.Context, learnerID, deckID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, learnerID, deckID)
	view, _ := args.Get(0).(*service.SessionView)
	return view, args.Error(1)
}

func (m *mockSessionService) Apply(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
	action service.Action,
) (*service.ActionResult, error) {
	args := m.Called(ctx, learnerID, deckID, action)
	result, _ := args.Get(0).(*service.ActionResult)
	return result, args.Error(1)
}

func (m *mockSessionService) ResetSession(ctx context.Context, learnerID, deckID uuid.UUID) error {
	return m.Called(ctx, learnerID, deckID).Error(0)
}

func sampleDeck(t testing.TB) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck("Greetings", "basic phrases", domain.ModeRepetition, domain.DefaultBehaviour(),
		[]domain.CardDefinition{
			{Front: domain.Face{Text: "hello"}, Back: domain.BackFace{Face: domain.Face{Text: "hola"}}},
			{Front: domain.Face{Text: "bye"}, Back: domain.BackFace{Face: domain.Face{Text: "adiós"}}},
		})
	require.NoError(t, err)
	return deck
}
