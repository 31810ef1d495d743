package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/service"
	"gopkg.in/yaml.v3"
)

// deckFile is the YAML layout of an authored deck:
//
//	title: Greetings
//	mode: repetition
//	behaviour:
//	  max_proficiency: 3
//	cards:
//	  - front: {text: Hola}
//	    back: {text: Hello, use_audio_from_front: true}
type deckFile struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Mode        string         `yaml:"mode"`
	Behaviour   *behaviourFile `yaml:"behaviour"`
	Cards       []cardFile     `yaml:"cards"`
}

// behaviourFile fields are pointers so that omitted keys keep the defaults.
type behaviourFile struct {
	EnableRetry                *bool `yaml:"enable_retry"`
	DisableBackwardsNavigation *bool `yaml:"disable_backwards_navigation"`
	RandomCards                *bool `yaml:"random_cards"`
	MaxProficiency             *int  `yaml:"max_proficiency"`
	QuickProgression           *bool `yaml:"quick_progression"`
}

type mediaFile struct {
	Path    string `yaml:"path"`
	Mime    string `yaml:"mime"`
	AltText string `yaml:"alt_text"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

type faceFile struct {
	Text  string     `yaml:"text"`
	Image *mediaFile `yaml:"image"`
	Audio *mediaFile `yaml:"audio"`
	Tip   string     `yaml:"tip"`
}

type backFaceFile struct {
	faceFile          `yaml:",inline"`
	UseImageFromFront bool `yaml:"use_image_from_front"`
	UseAudioFromFront bool `yaml:"use_audio_from_front"`
}

type cardFile struct {
	Front faceFile     `yaml:"front"`
	Back  backFaceFile `yaml:"back"`
}

// decodeDecks reads every YAML document in r as one deck. Unknown keys are
// rejected.
func decodeDecks(r io.Reader) ([]service.CreateDeckInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var inputs []service.CreateDeckInput
	for i := 1; ; i++ {
		var f deckFile
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		inputs = append(inputs, f.toInput())
	}

	if len(inputs) == 0 {
		return nil, errors.New("no decks found")
	}
	return inputs, nil
}

func (f deckFile) toInput() service.CreateDeckInput {
	input := service.CreateDeckInput{
		Title:       f.Title,
		Description: f.Description,
		Mode:        domain.Mode(f.Mode),
		Cards:       make([]domain.CardDefinition, len(f.Cards)),
	}

	if f.Behaviour != nil {
		b := domain.DefaultBehaviour()
		setIfPresent(&b.EnableRetry, f.Behaviour.EnableRetry)
		setIfPresent(&b.DisableBackwardsNavigation, f.Behaviour.DisableBackwardsNavigation)
		setIfPresent(&b.RandomCards, f.Behaviour.RandomCards)
		setIfPresent(&b.MaxProficiency, f.Behaviour.MaxProficiency)
		setIfPresent(&b.QuickProgression, f.Behaviour.QuickProgression)
		input.Behaviour = &b
	}

	for i, c := range f.Cards {
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

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (f faceFile) toDomain() domain.Face {
	return domain.Face{
		Text:  f.Text,
		Image: f.Image.toDomain(),
		Audio: f.Audio.toDomain(),
		Tip:   f.Tip,
	}
}

func (m *mediaFile) toDomain() *domain.Media {
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
