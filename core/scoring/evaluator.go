package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/prepmate/interview-core/core/llms/groq"
)

const evaluationInstructions = "You are an experienced interview coach evaluating one answer " +
	"from a practice interview. Score the answer honestly on a 0-10 scale per dimension: " +
	"communication (clarity and delivery), technical (depth and correctness for the role), " +
	"behavioral (self-awareness, collaboration, ownership), and structure (logical flow, " +
	"e.g. situation-action-result). List concrete strengths and concrete improvements, " +
	"each as a short phrase."

// evaluation is the schema the model is constrained to.
type evaluation struct {
	Communication int      `json:"communication" jsonschema:"minimum=0,maximum=10"`
	Technical     int      `json:"technical" jsonschema:"minimum=0,maximum=10"`
	Behavioral    int      `json:"behavioral" jsonschema:"minimum=0,maximum=10"`
	Structure     int      `json:"structure" jsonschema:"minimum=0,maximum=10"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
}

// Evaluator scores one answer against one question using Groq structured
// output.
type Evaluator struct {
	apiKey   string
	model    string
	endpoint string
}

type EvaluatorOption func(*Evaluator)

func WithModel(model string) EvaluatorOption {
	return func(e *Evaluator) {
		if model != "" {
			e.model = model
		}
	}
}

// WithEndpoint overrides the chat-completions URL, primarily for tests.
func WithEndpoint(endpoint string) EvaluatorOption {
	return func(e *Evaluator) {
		if endpoint != "" {
			e.endpoint = endpoint
		}
	}
}

func NewEvaluator(apiKey string, opts ...EvaluatorOption) *Evaluator {
	evaluator := &Evaluator{
		apiKey: apiKey,
		model:  groq.DefaultModel,
	}
	for _, opt := range opts {
		opt(evaluator)
	}
	return evaluator
}

// Evaluate scores one question/answer pair for the given role. It never
// returns a Go error: failures are encoded in the record itself and the
// caller filters them out of aggregates.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer, role string) Record {
	prompt := evaluationPrompt(question, answer, role)

	result, err := groq.PromptJSONSchema(
		ctx, e.apiKey, e.model, prompt, evaluationInstructions, evaluation{},
		groq.WithRequestEndpoint(e.endpoint),
	)
	if err != nil {
		return Failure(fmt.Errorf("scoring failed: %w", err))
	}

	return Record{
		Communication: clampScore(result.Communication),
		Technical:     clampScore(result.Technical),
		Behavioral:    clampScore(result.Behavioral),
		Structure:     clampScore(result.Structure),
		Strengths:     result.Strengths,
		Improvements:  result.Improvements,
	}
}

func evaluationPrompt(question, answer, role string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role being interviewed for: %s\n\n", role)
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Candidate's answer: %s\n", answer)
	return b.String()
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
