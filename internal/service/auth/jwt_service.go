package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeLearner marks tokens that identify a learner.
const TokenTypeLearner = "learner"

// JWTService issues and checks the bearer tokens that identify learners.
type JWTService interface {
	// GenerateToken creates a signed token for the learner.
	GenerateToken(ctx context.Context, learnerID uuid.UUID) (string, error)

	// ValidateToken verifies signature, lifetime and token type and returns
	// the claims of a valid token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the subset of token claims the rest of the application uses.
type Claims struct {
	// LearnerID is the learner the token was issued for.
	LearnerID uuid.UUID `json:"lid,omitempty"`

	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
