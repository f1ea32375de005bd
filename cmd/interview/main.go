package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	interview "github.com/prepmate/interview-core/core"
	"github.com/prepmate/interview-core/core/knowledge"
	"github.com/prepmate/interview-core/core/llms/groq"
	"github.com/prepmate/interview-core/core/llms/openai"
	"github.com/prepmate/interview-core/core/scoring"
	deepgramtts "github.com/prepmate/interview-core/core/texttospeech/deepgram"
	"github.com/prepmate/interview-core/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	orchestrator, err := buildOrchestrator(cfg)
	if err != nil {
		log.Fatalf("failed to build orchestrator: %v", err)
	}

	session := interview.NewSession(interview.WithMaxQuestions(cfg.MaxQuestions))

	program := tea.NewProgram(newModel(orchestrator, session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("failed to run interview: %v", err)
	}
}

func buildOrchestrator(cfg *config.Config) (*interview.Orchestrator, error) {
	opts := []interview.OrchestratorOption{
		interview.WithKnowledgeBase(knowledge.NewDirLoader(cfg.RolesDir)),
	}

	switch cfg.LLMProvider {
	case config.ProviderGroq:
		opts = append(opts,
			interview.WithGenerator(groq.NewClient(cfg.GroqAPIKey, groq.WithModel(cfg.GroqModel))),
		)
	case config.ProviderOpenAI:
		opts = append(opts,
			interview.WithGenerator(openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)),
		)
	}

	// Scoring relies on structured output, which runs through Groq
	// regardless of the generation provider.
	if cfg.GroqAPIKey != "" {
		opts = append(opts, interview.WithScorer(
			scoring.NewEvaluator(cfg.GroqAPIKey, scoring.WithModel(cfg.GroqModel)),
		))
	}

	if cfg.DeepgramAPIKey != "" {
		tts, err := deepgramtts.NewTextToSpeechClient(context.Background(), deepgramtts.Voice(cfg.Voice),
			deepgramtts.WithOutputDir(cfg.AudioOutputDir))
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			interview.WithTextToSpeech(tts),
			interview.WithVoice(cfg.Voice),
		)
	}

	return interview.NewOrchestrator(opts...), nil
}
