package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/prepmate/interview-core/core/knowledge"
	"github.com/prepmate/interview-core/core/llms"
	"github.com/prepmate/interview-core/core/scoring"
)

// errNotConfigured marks calls against gateways no client was wired for.
// It flows through the same fallback paths as any other gateway failure.
var errNotConfigured = errors.New("no client configured")

// generatorGateway is the generation facade used to normalize optional
// client wiring.
type generatorGateway struct {
	client Generator
}

func (g *generatorGateway) set(client Generator) {
	if g != nil {
		g.client = client
	}
}

func (g *generatorGateway) isConfigured() bool {
	return g != nil && g.client != nil
}

func (g *generatorGateway) generate(ctx context.Context, messages []llms.Message, temperature float32) (string, error) {
	if !g.isConfigured() {
		return "", fmt.Errorf("generation: %w", errNotConfigured)
	}

	return g.client.Generate(ctx, messages, temperature)
}

// scorerGateway is the scoring facade. Scoring failures are values, never
// errors, so an unconfigured scorer degrades to an error-sentinel record.
type scorerGateway struct {
	client Scorer
}

func (s *scorerGateway) set(client Scorer) {
	if s != nil {
		s.client = client
	}
}

func (s *scorerGateway) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *scorerGateway) evaluate(ctx context.Context, question, answer, role string) scoring.Record {
	if !s.isConfigured() {
		return scoring.Failure(fmt.Errorf("scoring: %w", errNotConfigured))
	}

	return s.client.Evaluate(ctx, question, answer, role)
}

// knowledgeGateway is the knowledge-base facade. Load failures are absorbed
// here: the controller only distinguishes "context available" from "not".
type knowledgeGateway struct {
	client KnowledgeBase
}

func (k *knowledgeGateway) set(client KnowledgeBase) {
	if k != nil {
		k.client = client
	}
}

func (k *knowledgeGateway) isConfigured() bool {
	return k != nil && k.client != nil
}

func (k *knowledgeGateway) load(ctx context.Context, role string) *knowledge.RoleContext {
	if !k.isConfigured() {
		return nil
	}

	roleContext, err := k.client.Load(ctx, role)
	if err != nil {
		logger.WarnContext(ctx, "failed to load role context", "role", role, "error", err)
		return nil
	}
	return roleContext
}

type speechToTextGateway struct {
	client SpeechToText
}

func (s *speechToTextGateway) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToTextGateway) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechToTextGateway) transcribe(ctx context.Context, recording []byte) (string, error) {
	if !s.isConfigured() {
		return "", fmt.Errorf("speech-to-text: %w", errNotConfigured)
	}

	return s.client.TranscribeBuffer(ctx, recording)
}

type textToSpeechGateway struct {
	client TextToSpeech
}

func (t *textToSpeechGateway) set(client TextToSpeech) {
	if t != nil {
		t.client = client
	}
}

func (t *textToSpeechGateway) isConfigured() bool {
	return t != nil && t.client != nil
}

func (t *textToSpeechGateway) synthesize(ctx context.Context, text, voice string) (string, error) {
	if !t.isConfigured() {
		return "", fmt.Errorf("text-to-speech: %w", errNotConfigured)
	}

	return t.client.Synthesize(ctx, text, voice)
}
