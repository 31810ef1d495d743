package domain

import (
	"errors"
	"strings"
)

// Card-specific validation errors
var (
	// ErrCardFaceEmpty is returned when a card front has neither text nor an image.
	ErrCardFaceEmpty = errors.New("card front needs text or an image")

	// ErrMediaPathEmpty is returned when a media reference has no path.
	ErrMediaPathEmpty = errors.New("media path cannot be empty")
)

// Media references an asset owned by the host. The engine never loads it.
type Media struct {
	Path    string `json:"path"`
	Mime    string `json:"mime,omitempty"`
	AltText string `json:"alt_text,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Validate checks that the media reference is usable.
func (m *Media) Validate() error {
	if m == nil {
		return nil
	}
	if strings.TrimSpace(m.Path) == "" {
		return ErrMediaPathEmpty
	}
	return nil
}

// Face is one side of a card.
type Face struct {
	Text  string `json:"text"`
	Image *Media `json:"image,omitempty"`
	Audio *Media `json:"audio,omitempty"`
	Tip   string `json:"tip,omitempty"`
}

// BackFace is the answer side of a card. It may borrow the image and audio
// of the front side instead of carrying its own.
type BackFace struct {
	Face
	UseImageFromFront bool `json:"use_image_from_front,omitempty"`
	UseAudioFromFront bool `json:"use_audio_from_front,omitempty"`
}

// Resolve returns the effective back face with inherited media applied.
// Inherited media replaces whatever the back side declares.
func (b BackFace) Resolve(front Face) Face {
	resolved := b.Face
	if b.UseImageFromFront {
		resolved.Image = front.Image
	}
	if b.UseAudioFromFront {
		resolved.Audio = front.Audio
	}
	return resolved
}

// CardDefinition is the raw, immutable content of a single dialog card.
type CardDefinition struct {
	Front Face     `json:"front"`
	Back  BackFace `json:"back"`
}

// Validate checks if the CardDefinition has valid data.
func (c CardDefinition) Validate() error {
	if strings.TrimSpace(c.Front.Text) == "" && c.Front.Image == nil {
		return ErrCardFaceEmpty
	}

	for _, m := range []*Media{c.Front.Image, c.Front.Audio, c.Back.Image, c.Back.Audio} {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	return nil
}
