package interview

import (
	"context"

	"github.com/prepmate/interview-core/core/knowledge"
	"github.com/prepmate/interview-core/core/llms"
	"github.com/prepmate/interview-core/core/scoring"
)

type OrchestratorOption func(*Orchestrator)

// Generator produces free-form text from a chat transcript.
type Generator interface {
	Generate(ctx context.Context, messages []llms.Message, temperature float32) (string, error)
}

// Scorer evaluates one answer against one question. Implementations never
// return a Go error; failures are encoded in the record itself.
type Scorer interface {
	Evaluate(ctx context.Context, question, answer, role string) scoring.Record
}

// KnowledgeBase resolves a role name to its question and competency set. A
// nil context with a nil error means the role is unknown, which is a
// normal, handled outcome.
type KnowledgeBase interface {
	Load(ctx context.Context, role string) (*knowledge.RoleContext, error)
}

// SpeechToText converts one complete recording to text.
type SpeechToText interface {
	TranscribeBuffer(ctx context.Context, recording []byte) (string, error)
}

// TextToSpeech renders text to an audio handle with the given voice.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, voice string) (string, error)
}

func WithGenerator(client Generator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.generator.set(client)
	}
}

func WithScorer(client Scorer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.scorer.set(client)
	}
}

func WithKnowledgeBase(client KnowledgeBase) OrchestratorOption {
	return func(o *Orchestrator) {
		o.knowledge.set(client)
	}
}

func WithSpeechToText(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

func WithTextToSpeech(client TextToSpeech) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech.set(client)
	}
}

// WithVoice selects the voice used when synthesizing replies.
func WithVoice(voice string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.voice = voice
	}
}

// WithCompetencyLimit caps how many role competencies condition generated
// follow-up questions.
func WithCompetencyLimit(limit int) OrchestratorOption {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.competencyLimit = limit
		}
	}
}
