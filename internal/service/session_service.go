package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/domain/cards"
	"github.com/phrazzld/dialogcards/internal/events"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/session"
	"github.com/phrazzld/dialogcards/internal/store"
)

// CardView is the card on screen. Back is only present once the card is turned.
type CardView struct {
	ID      int          `json:"id"`
	LabelID string       `json:"label_id"`
	Front   domain.Face  `json:"front"`
	Back    *domain.Face `json:"back,omitempty"`
}

// SessionView is what a client needs to render a session.
type SessionView struct {
	DeckID uuid.UUID `json:"deck_id"`
	session.View
	Card *CardView `json:"card,omitempty"`
}

// ActionResult is the outcome of Apply. Applied is false when the action was
// valid but had no effect in the current state, such as "next" on the last card.
type ActionResult struct {
	Applied bool        `json:"applied"`
	Session SessionView `json:"session"`
}

// SessionService drives learners' study sessions.
type SessionService interface {
	// GetSession resumes the stored session, or starts a fresh one. A fresh
	// session is stored only when its selection was shuffled, so the card
	// shown is the card the next action applies to.
	GetSession(ctx context.Context, learnerID, deckID uuid.UUID) (*SessionView, error)

	// Apply performs one action on the session and persists the result.
	// Returns ErrInvalidAction for unknown actions and ErrDeckNotFound for
	// unknown decks.
	Apply(ctx context.Context, learnerID, deckID uuid.UUID, action Action) (*ActionResult, error)

	// ResetSession discards the learner's progress on the deck.
	ResetSession(ctx context.Context, learnerID, deckID uuid.UUID) error
}

type sessionServiceImpl struct {
	decks    store.DeckStore
	sessions store.SessionStore
	tx       SessionTransactor
	emitter  events.EventEmitter
	seed     uint64
	logger   *slog.Logger
}

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// NewSessionService creates a SessionService. emitter may be nil.
func NewSessionService(
	decks store.DeckStore,
	sessions store.SessionStore,
	tx SessionTransactor,
	emitter events.EventEmitter,
	cfg config.SessionConfig,
	logger *slog.Logger,
) (SessionService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", nil)
	}
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", nil)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		decks:    decks,
		sessions: sessions,
		tx:       tx,
		emitter:  emitter,
		seed:     cfg.RandomSeed,
		logger:   logger.With(slog.String("component", "session_service")),
	}, nil
}

func (s *sessionServiceImpl) GetSession(ctx context.Context, learnerID, deckID uuid.UUID) (*SessionView, error) {
	ctx, log := s.scope(ctx, learnerID, deckID)

	deck, err := s.loadDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	prev, err := s.sessions.Get(ctx, learnerID, deckID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to load session state", redact.ErrorAttr(err))
		return nil, newServiceError("session", "get", err)
	}

	ctrl, err := s.controller(ctx, deck, learnerID, prev)
	if err != nil {
		return nil, newServiceError("session", "get", err)
	}

	if prev == nil && !ctrl.Reproducible() {
		if ctrl, err = s.startFresh(ctx, deck, learnerID); err != nil {
			log.Error("failed to store fresh session", redact.ErrorAttr(err))
			return nil, newServiceError("session", "get", err)
		}
	}

	view := buildView(deck.ID, ctrl)
	return &view, nil
}

// startFresh stores a newly drawn selection. A session stored concurrently by
// another request wins over the new draw.
func (s *sessionServiceImpl) startFresh(
	ctx context.Context,
	deck *domain.Deck,
	learnerID uuid.UUID,
) (*session.Controller, error) {
	var ctrl *session.Controller

	err := s.tx.InTransaction(ctx, func(ctx context.Context, sessions store.SessionStore) error {
		prev, err := sessions.GetForUpdate(ctx, learnerID, deck.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to lock session state: %w", err)
		}

		if ctrl, err = s.controller(ctx, deck, learnerID, prev); err != nil {
			return err
		}
		if prev != nil {
			return nil
		}

		if err := sessions.Save(ctx, learnerID, deck.ID, ctrl.Snapshot()); err != nil {
			return fmt.Errorf("failed to save session state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ctrl, nil
}

func (s *sessionServiceImpl) Apply(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
	action Action,
) (*ActionResult, error) {
	ctx, log := s.scope(ctx, learnerID, deckID)

	action, err := ParseAction(string(action))
	if err != nil {
		return nil, err
	}

	deck, err := s.loadDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	var (
		result  ActionResult
		before  session.State
		after   session.State
		summary session.Summary
		ended   bool
	)

	err = s.tx.InTransaction(ctx, func(ctx context.Context, sessions store.SessionStore) error {
		prev, err := sessions.GetForUpdate(ctx, learnerID, deckID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to lock session state: %w", err)
		}

		ctrl, err := s.controller(ctx, deck, learnerID, prev)
		if err != nil {
			return err
		}

		before = ctrl.State()
		_, hadSummary := ctrl.Summary()

		applied, err := action.apply(ctrl)
		if err != nil {
			return err
		}

		after = ctrl.State()
		summary, ended = ctrl.Summary()
		ended = ended && !hadSummary

		// A fresh draw is stored even when the action had no effect.
		if applied || prev == nil {
			if state := persistedState(ctrl); state != nil {
				if err := sessions.Save(ctx, learnerID, deckID, state); err != nil {
					return fmt.Errorf("failed to save session state: %w", err)
				}
			} else if applied {
				if err := sessions.Delete(ctx, learnerID, deckID); err != nil {
					return fmt.Errorf("failed to clear session state: %w", err)
				}
			}
		}

		result = ActionResult{Applied: applied, Session: buildView(deck.ID, ctrl)}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAction) {
			return nil, err
		}
		log.Error("failed to apply session action",
			slog.String("action", string(action)),
			redact.ErrorAttr(err))
		return nil, newServiceError("session", "apply", err)
	}

	log.Debug("session action applied",
		slog.String("action", string(action)),
		slog.Bool("applied", result.Applied),
		slog.String("state", after.String()),
		slog.Int("round", result.Session.Round),
		slog.Int("position", result.Session.Position))

	if ended {
		s.emit(ctx, events.TypeRoundCompleted, learnerID, deckID, summary)
	}
	if after == session.Finished && before != session.Finished {
		s.emit(ctx, events.TypeDeckMastered, learnerID, deckID, summary)
	}

	return &result, nil
}

func (s *sessionServiceImpl) ResetSession(ctx context.Context, learnerID, deckID uuid.UUID) error {
	ctx, log := s.scope(ctx, learnerID, deckID)

	if _, err := s.loadDeck(ctx, deckID); err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, learnerID, deckID); err != nil {
		log.Error("failed to reset session", redact.ErrorAttr(err))
		return newServiceError("session", "reset", err)
	}

	log.Info("session reset")
	s.emit(ctx, events.TypeSessionReset, learnerID, deckID, nil)
	return nil
}

// scope attaches learner and deck ids to every record logged with ctx.
func (s *sessionServiceImpl) scope(ctx context.Context, learnerID, deckID uuid.UUID) (context.Context, *slog.Logger) {
	ctx = logger.WithAttrs(ctx,
		slog.String("learner_id", learnerID.String()),
		slog.String("deck_id", deckID.String()))
	return ctx, logger.FromContextOrDefault(ctx, s.logger)
}

func (s *sessionServiceImpl) loadDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load deck", redact.ErrorAttr(err))
		return nil, newServiceError("session", "load deck", err)
	}
	return deck, nil
}

// persistedState returns what to store for ctrl, or nil when the stored row
// can be dropped because the session would be drawn the same way again.
func persistedState(ctrl *session.Controller) *domain.SessionState {
	if state := ctrl.CurrentState(); state != nil {
		return state
	}
	if !ctrl.Reproducible() {
		return ctrl.Snapshot()
	}
	return nil
}

// controller rebuilds the card engine for deck and resumes it from prev.
func (s *sessionServiceImpl) controller(
	ctx context.Context,
	deck *domain.Deck,
	learnerID uuid.UUID,
	prev *domain.SessionState,
) (*session.Controller, error) {
	round := 1
	if prev != nil {
		round = prev.Round
	}
	rng := s.newRand(learnerID, deck.ID, round)
	log := logger.FromContextOrDefault(ctx, s.logger)

	manager, err := cards.NewManager(cards.NewPool(deck.Cards), cards.ManagerConfig{
		Mode:           deck.Mode,
		MaxProficiency: deck.Behaviour.MaxProficiency,
		Rand:           rng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build card manager: %w", err)
	}

	ctrl, err := session.New(manager, session.Options{
		Behaviour: deck.Behaviour,
		Logger:    log,
		Rand:      rng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build session controller: %w", err)
	}

	ctrl.Start(prev)
	return ctrl, nil
}

// newRand returns a random source. A configured seed is combined with the
// learner, deck and round so each of them draws its own sequence while
// staying reproducible. Without a seed the global source is used.
func (s *sessionServiceImpl) newRand(learnerID, deckID uuid.UUID, round int) *rand.Rand {
	if s.seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	stream := uint64(round) * 0x9e3779b97f4a7c15
	for _, id := range []uuid.UUID{learnerID, deckID} {
		stream = stream*31 ^ binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	}
	return rand.New(rand.NewPCG(s.seed, stream))
}

func (s *sessionServiceImpl) emit(
	ctx context.Context,
	eventType string,
	learnerID, deckID uuid.UUID,
	payload any,
) {
	if s.emitter == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	event, err := events.NewProgressEvent(eventType, learnerID, deckID, payload)
	if err != nil {
		log.Error("failed to build progress event",
			slog.String("event_type", eventType),
			redact.ErrorAttr(err))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("progress event not handled",
			slog.String("event_type", eventType),
			redact.ErrorAttr(err))
	}
}

func buildView(deckID uuid.UUID, ctrl *session.Controller) SessionView {
	view := SessionView{DeckID: deckID, View: ctrl.View()}

	if card, ok := ctrl.Card(); ok {
		cv := &CardView{ID: card.ID, LabelID: card.LabelID, Front: card.Front}
		if ctrl.Turned() {
			back := card.Back
			cv.Back = &back
		}
		view.Card = cv
	}

	return view
}
