package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/service"
)

// MediaRequest references an image or audio asset owned by the client.
type MediaRequest struct {
	Path    string `json:"path"               validate:"required,max=2048"`
	Mime    string `json:"mime,omitempty"     validate:"omitempty,max=255"`
	AltText string `json:"alt_text,omitempty" validate:"omitempty,max=500"`
	Width   int    `json:"width,omitempty"    validate:"gte=0"`
	Height  int    `json:"height,omitempty"   validate:"gte=0"`
}

// FaceRequest is one side of a card.
type FaceRequest struct {
	Text  string        `json:"text"            validate:"max=10000"`
	Image *MediaRequest `json:"image,omitempty"`
	Audio *MediaRequest `json:"audio,omitempty"`
	Tip   string        `json:"tip,omitempty"   validate:"max=2000"`
}

// BackFaceRequest is the answer side of a card.
type BackFaceRequest struct {
	FaceRequest
	UseImageFromFront bool `json:"use_image_from_front,omitempty"`
	UseAudioFromFront bool `json:"use_audio_from_front,omitempty"`
}

// CardRequest is a single dialog card in a CreateDeckRequest.
type CardRequest struct {
	Front FaceRequest     `json:"front"`
	Back  BackFaceRequest `json:"back"`
}

// BehaviourRequest overrides the default session behaviour of a deck.
type BehaviourRequest struct {
	EnableRetry                bool `json:"enable_retry"`
	DisableBackwardsNavigation bool `json:"disable_backwards_navigation"`
	RandomCards                bool `json:"random_cards"`
	MaxProficiency             int  `json:"max_proficiency"              validate:"omitempty,gte=2,lte=10"`
	QuickProgression           bool `json:"quick_progression"`
}

// CreateDeckRequest defines the payload for POST /decks.
type CreateDeckRequest struct {
	Title       string            `json:"title"                 validate:"required,max=200"`
	Description string            `json:"description,omitempty" validate:"max=2000"`
	Mode        string            `json:"mode"                  validate:"required,oneof=normal repetition"`
	Behaviour   *BehaviourRequest `json:"behaviour,omitempty"`
	Cards       []CardRequest     `json:"cards"                 validate:"required,min=1,max=1000,dive"`
}

// ToInput converts the request into service input.
func (r CreateDeckRequest) ToInput() service.CreateDeckInput {
	input := service.CreateDeckInput{
		Title:       r.Title,
		Description: r.Description,
		Mode:        domain.Mode(r.Mode),
		Cards:       make([]domain.CardDefinition, len(r.Cards)),
	}

	if r.Behaviour != nil {
		input.Behaviour = &domain.Behaviour{
			EnableRetry:                r.Behaviour.EnableRetry,
			DisableBackwardsNavigation: r.Behaviour.DisableBackwardsNavigation,
			RandomCards:                r.Behaviour.RandomCards,
			MaxProficiency:             r.Behaviour.MaxProficiency,
			QuickProgression:           r.Behaviour.QuickProgression,
		}
	}

	for i, c := range r.Cards {
		input.Cards[i] = domain.CardDefinition{
			Front: c.Front.toDomain(),
			Back: domain.BackFace{
				Face:              c.Back.toDomain(),
				UseImageFromFront: c.Back.UseImageFromFront,
				UseAudioFromFront: c.Back.UseAudioFromFront,
			},
		}
	}

	return input
}

func (f FaceRequest) toDomain() domain.Face {
	return domain.Face{
		Text:  f.Text,
		Image: f.Image.toDomain(),
		Audio: f.Audio.toDomain(),
		Tip:   f.Tip,
	}
}

func (m *MediaRequest) toDomain() *domain.Media {
	if m == nil {
		return nil
	}
	return &domain.Media{
		Path:    m.Path,
		Mime:    m.Mime,
		AltText: m.AltText,
		Width:   m.Width,
		Height:  m.Height,
	}
}

// DeckResponse is the full representation of a deck.
type DeckResponse struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Mode        domain.Mode             `json:"mode"`
	Behaviour   domain.Behaviour        `json:"behaviour"`
	Cards       []domain.CardDefinition `json:"cards"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// DeckSummaryResponse is a deck in a listing, without its cards.
type DeckSummaryResponse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Mode        domain.Mode `json:"mode"`
	CardCount   int         `json:"card_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DeckListResponse is a page of decks.
type DeckListResponse struct {
	Decks  []DeckSummaryResponse `json:"decks"`
	Mode   string                `json:"mode,omitempty"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// SessionActionRequest defines the payload for POST /decks/{deckID}/session/actions.
type SessionActionRequest struct {
	Action string `json:"action" validate:"required,max=32"`
}

func deckToResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Mode:        d.Mode,
		Behaviour:   d.Behaviour,
		Cards:       d.Cards,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func deckToSummary(d *domain.Deck) DeckSummaryResponse {
	return DeckSummaryResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Mode:        d.Mode,
		CardCount:   len(d.Cards),
		CreatedAt:   d.CreatedAt,
	}
}
