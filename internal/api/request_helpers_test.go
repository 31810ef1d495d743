package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/api/shared"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withURLParam attaches a chi route context carrying a single URL parameter.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetLearnerIDFromContext(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()

	tests := []struct {
		name       string
		ctx        context.Context
		expectedID uuid.UUID
		expectedOK bool
	}{
		{"valid learner ID", shared.WithLearnerID(context.Background(), learnerID), learnerID, true},
		{"missing learner ID", context.Background(), uuid.Nil, false},
		{"nil learner ID", shared.WithLearnerID(context.Background(), uuid.Nil), uuid.Nil, false},
		{
			"wrong type in context",
			context.WithValue(context.Background(), shared.LearnerIDContextKey, "not-a-uuid"),
			uuid.Nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			id, ok := getLearnerIDFromContext(req)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestGetPathUUID(t *testing.T) {
	t.Parallel()

	valid := uuid.New()

	id, err := getPathUUID(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "deckID", valid.String()), "deckID")
	require.NoError(t, err)
	assert.Equal(t, valid, id)

	_, err = getPathUUID(httptest.NewRequest(http.MethodGet, "/", nil), "deckID")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = getPathUUID(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "deckID", "not-a-uuid"), "deckID")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestGetPathUUIDThroughRouter(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	var got uuid.UUID
	var gotErr error

	r := chi.NewRouter()
	r.Get("/decks/{deckID}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = getPathUUID(r, "deckID")
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/decks/"+deckID.String(), nil))

	require.NoError(t, gotErr)
	assert.Equal(t, deckID, got)
}

func TestHandleLearnerIDAndPathUUID(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	deckID := uuid.New()

	tests := []struct {
		name              string
		ctx               context.Context
		param             string
		expectedOK        bool
		expectedStatus    int
		expectedLearnerID uuid.UUID
		expectedDeckID    uuid.UUID
	}{
		{
			name:              "valid",
			ctx:               shared.WithLearnerID(context.Background(), learnerID),
			param:             deckID.String(),
			expectedOK:        true,
			expectedStatus:    http.StatusOK,
			expectedLearnerID: learnerID,
			expectedDeckID:    deckID,
		},
		{
			name:           "missing learner",
			ctx:            context.Background(),
			param:          deckID.String(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid deck id",
			ctx:            shared.WithLearnerID(context.Background(), learnerID),
			param:          "deck-1",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			req = withURLParam(req, "deckID", tt.param)
			rr := httptest.NewRecorder()

			gotLearner, gotDeck, ok := handleLearnerIDAndPathUUID(rr, req, "deckID", discardLogger())

			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLearnerID, gotLearner)
			assert.Equal(t, tt.expectedDeckID, gotDeck)
		})
	}
}

func TestQueryInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"?limit=5", 5, false},
		{"?limit=0", 0, false},
		{"?limit=-1", 0, true},
		{"?limit=ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			got, err := queryInt(httptest.NewRequest(http.MethodGet, "/decks"+tt.query, nil), "limit", 20)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
