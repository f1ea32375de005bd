// Package knowledge resolves interview roles to their question and
// competency sets.
package knowledge

// RoleContext is the per-role dataset of scripted questions, competencies
// and reference material used to drive and evaluate an interview.
type RoleContext struct {
	Role               string   `json:"role"`
	BaseQuestions      []string `json:"base_questions"`
	Competencies       []string `json:"competencies"`
	SampleGoodAnswers  []string `json:"sample_good_answers,omitempty"`
	SampleBadAnswers   []string `json:"sample_bad_answers,omitempty"`
	EvaluationCriteria []string `json:"evaluation_criteria,omitempty"`
}
