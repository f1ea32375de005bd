package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGroq   LLMProvider = "groq"
	ProviderOpenAI LLMProvider = "openai"
)

type Config struct {
	// LLM settings
	LLMProvider   LLMProvider `env:"LLM_PROVIDER" envDefault:"groq"`
	GroqAPIKey    string      `env:"GROQ_API_KEY"`
	GroqModel     string      `env:"GROQ_MODEL"`
	OpenAIAPIKey  string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string      `env:"OPENAI_BASE_URL"`
	OpenAIModel   string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Voice settings (optional)
	DeepgramAPIKey string `env:"DEEPGRAM_API_KEY"`
	Voice          string `env:"VOICE" envDefault:"aura-asteria-en"`
	AudioOutputDir string `env:"AUDIO_OUTPUT_DIR"`

	// Interview settings
	RolesDir     string `env:"ROLES_DIR" envDefault:"roles"`
	MaxQuestions int    `env:"MAX_QUESTIONS" envDefault:"5"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Validate checks that the selected provider has its credentials set.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when LLM_PROVIDER=groq")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}
