package interview

import (
	"fmt"
	"strings"

	"github.com/prepmate/interview-core/core/llms"
)

const (
	followupTemperature float32 = 0.4
	summaryTemperature  float32 = 0.7

	// summaryFeedbackLimit caps strengths/improvements fed to summary
	// generation; fallbackFeedbackLimit caps them in the deterministic
	// fallback report.
	summaryFeedbackLimit  = 8
	fallbackFeedbackLimit = 5
)

const (
	blankAnswerPrompt = "I didn't catch an answer there. Please answer the question, " +
		"or say as much as you can - there are no wrong attempts in practice."

	transcriptionFailedPrompt = "Sorry, I couldn't make out your recording. " +
		"Could you try again, or type your answer instead?"

	finishedNotice = "This practice interview has ended. Start a new session whenever " +
		"you'd like another round."

	fallbackFollowupQuestion = "Could you elaborate on your last answer? Walk me through " +
		"what you did, why you did it that way, and what the outcome was."

	noScoresMessage = "Interview complete, but no scores were recorded, so there is " +
		"nothing to evaluate. Please start a new session and try again."
)

func rolePrompt() string {
	return fmt.Sprintf(
		"Welcome to your practice interview! Which role would you like to practice for? "+
			"Available roles: %s.", strings.Join(knownRoles(), ", "))
}

func unknownRolePrompt() string {
	return fmt.Sprintf(
		"I don't have an interview prepared for that role. Available roles: %s.",
		strings.Join(knownRoles(), ", "))
}

func roleUnavailablePrompt() string {
	return fmt.Sprintf(
		"I couldn't load the questions for that role right now. Please pick one of: %s.",
		strings.Join(knownRoles(), ", "))
}

func firstQuestionReply(roleName, question string) string {
	return fmt.Sprintf("Great, let's begin your %s practice interview.\n\nQuestion 1: %s",
		roleName, question)
}

func scriptedQuestionReply(number int, question string) string {
	return fmt.Sprintf("Question %d: %s", number, question)
}

const followupInstructions = "You are a professional interviewer running a practice " +
	"interview. Ask exactly one follow-up question that digs deeper into the candidate's " +
	"last answer. Keep it short, specific and conversational. Return only the question."

func followupMessages(role string, last Exchange, competencies []string) []llms.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\n", role)
	fmt.Fprintf(&b, "Question asked: %s\n\n", last.Question)
	fmt.Fprintf(&b, "Candidate's answer: %s\n", last.Answer)
	if len(competencies) > 0 {
		fmt.Fprintf(&b, "\nCompetencies to probe: %s\n", strings.Join(competencies, ", "))
	}
	b.WriteString("\nAsk one follow-up question.")

	return []llms.Message{
		llms.System(followupInstructions),
		llms.User(b.String()),
	}
}

const summaryInstructions = "You are an expert interview evaluator and career coach. " +
	"Your task is to generate a final structured summary for a completed practice " +
	"interview. Be encouraging but honest. Provide specific, actionable feedback. " +
	"Format your response in a clear, professional manner with sections and bullet points."

func summaryMessages(session *Session, agg aggregate) []llms.Message {
	roleName := session.Role
	competencies := "general interview skills"
	if session.Context != nil {
		if session.Context.Role != "" {
			roleName = session.Context.Role
		}
		if len(session.Context.Competencies) > 0 {
			competencies = strings.Join(session.Context.Competencies, ", ")
		}
	}

	var b strings.Builder
	b.WriteString("Generate a comprehensive interview evaluation summary based on the following data:\n\n")
	fmt.Fprintf(&b, "Role: %s\n\n", roleName)
	b.WriteString("Overall Scores (0-10 scale):\n")
	fmt.Fprintf(&b, "- Communication: %d/10\n", agg.Communication)
	fmt.Fprintf(&b, "- Technical: %d/10\n", agg.Technical)
	fmt.Fprintf(&b, "- Behavioral: %d/10\n", agg.Behavioral)
	fmt.Fprintf(&b, "- Structure: %d/10\n\n", agg.Structure)
	b.WriteString("Key Strengths Identified:\n")
	for _, strength := range capped(agg.Strengths, summaryFeedbackLimit) {
		fmt.Fprintf(&b, "- %s\n", strength)
	}
	b.WriteString("\nAreas for Improvement:\n")
	for _, improvement := range capped(agg.Improvements, summaryFeedbackLimit) {
		fmt.Fprintf(&b, "- %s\n", improvement)
	}
	b.WriteString("\nInterview Statistics:\n")
	fmt.Fprintf(&b, "- Total Questions Answered: %d\n", len(session.Answers))
	fmt.Fprintf(&b, "- Role Competencies Evaluated: %s\n\n", competencies)
	b.WriteString("Please generate a final summary that includes:\n")
	b.WriteString("1. An opening statement about overall performance\n")
	b.WriteString("2. A breakdown of the scores with brief explanations\n")
	b.WriteString("3. Top 3-5 strengths to celebrate\n")
	b.WriteString("4. Top 3-5 improvement areas with specific action items\n")
	b.WriteString("5. A motivating closing statement\n\n")
	b.WriteString("Keep the tone professional yet encouraging.")

	return []llms.Message{
		llms.System(summaryInstructions),
		llms.User(b.String()),
	}
}

// fallbackReport renders the close-out deterministically when summary
// generation fails, carrying the same numbers plus the failure reason so
// the candidate still gets a complete, data-consistent report.
func fallbackReport(session *Session, agg aggregate, cause error) string {
	roleName := session.Role
	if session.Context != nil && session.Context.Role != "" {
		roleName = session.Context.Role
	}

	var b strings.Builder
	b.WriteString("Interview Complete!\n\n")
	fmt.Fprintf(&b, "Overall Performance for the %s Role:\n\n", roleName)
	b.WriteString("Scores:\n")
	fmt.Fprintf(&b, "- Communication: %d/10\n", agg.Communication)
	fmt.Fprintf(&b, "- Technical: %d/10\n", agg.Technical)
	fmt.Fprintf(&b, "- Behavioral: %d/10\n", agg.Behavioral)
	fmt.Fprintf(&b, "- Structure: %d/10\n\n", agg.Structure)
	b.WriteString("Key Strengths:\n")
	for _, strength := range capped(agg.Strengths, fallbackFeedbackLimit) {
		fmt.Fprintf(&b, "+ %s\n", strength)
	}
	b.WriteString("\nAreas for Improvement:\n")
	for _, improvement := range capped(agg.Improvements, fallbackFeedbackLimit) {
		fmt.Fprintf(&b, "> %s\n", improvement)
	}
	b.WriteString("\nNext Steps:\nFocus on the improvement areas above and keep practicing. Great work!\n")
	fmt.Fprintf(&b, "\n(Note: detailed AI summary unavailable: %v)\n", cause)

	return b.String()
}
