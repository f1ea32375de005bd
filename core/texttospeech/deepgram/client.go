package deepgram

import (
	"context"
	"fmt"
	"slices"
)

// Voice names a deepgram speech model.
type Voice string

const (
	VoiceAsteria Voice = "aura-asteria-en"
	VoiceLuna    Voice = "aura-luna-en"
	VoiceStella  Voice = "aura-stella-en"
	VoiceOrion   Voice = "aura-orion-en"
	VoiceArcas   Voice = "aura-arcas-en"
	VoiceHelios  Voice = "aura-helios-en"
)

const defaultVoice = VoiceAsteria

func GetAvailableVoices() []Voice {
	return []Voice{VoiceAsteria, VoiceLuna, VoiceStella, VoiceOrion, VoiceArcas, VoiceHelios}
}

// TextToSpeechClient renders text to audio through deepgram's speak API.
type TextToSpeechClient struct {
	voice Voice

	speakEndpoint string
	outputDir     string
}

type ClientOption func(*TextToSpeechClient)

// WithSpeakEndpoint overrides the speak URL, primarily for tests.
func WithSpeakEndpoint(endpoint string) ClientOption {
	return func(c *TextToSpeechClient) {
		if endpoint != "" {
			c.speakEndpoint = endpoint
		}
	}
}

// WithOutputDir sets where synthesized audio files are written. Defaults to
// the system temp directory.
func WithOutputDir(dir string) ClientOption {
	return func(c *TextToSpeechClient) {
		if dir != "" {
			c.outputDir = dir
		}
	}
}

func NewTextToSpeechClient(ctx context.Context, voice Voice, opts ...ClientOption) (*TextToSpeechClient, error) {
	client := &TextToSpeechClient{
		voice:         defaultVoice,
		speakEndpoint: defaultSpeakEndpoint,
	}

	if voice != "" {
		if !slices.Contains(GetAvailableVoices(), voice) {
			return nil, fmt.Errorf("invalid voice")
		}
		client.voice = voice
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *TextToSpeechClient) SetVoice(voice Voice) {
	c.voice = voice
}
