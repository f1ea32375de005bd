package interview

// turnKind is the scheduler's decision about the upcoming system turn.
type turnKind int

const (
	// turnFollowup generates a follow-up conditioned on the latest answer.
	turnFollowup turnKind = iota
	// turnScripted surfaces the next scripted main question.
	turnScripted
	// turnFinished closes the interview with the final summary.
	turnFinished
)

// nextTurn applies the strict scripted/follow-up alternation: one scripted
// question, one follow-up, repeat, until the question index reaches the
// session ceiling or the scripted list runs out, whichever comes first.
// Scripted questions are consumed in knowledge-base order with no
// reordering, repetition or skipping.
func nextTurn(session *Session) turnKind {
	if session.FollowupStage {
		return turnFollowup
	}

	if session.CurrentQuestionIndex >= session.MaxQuestions {
		return turnFinished
	}

	if session.Context == nil || session.CurrentQuestionIndex >= len(session.Context.BaseQuestions) {
		return turnFinished
	}

	return turnScripted
}

// advanceScriptedQuestion consumes the next scripted question and flags the
// turn after it as a follow-up.
func advanceScriptedQuestion(session *Session) string {
	question := session.Context.BaseQuestions[session.CurrentQuestionIndex]
	session.CurrentQuestionIndex++
	session.CurrentQuestion = question
	session.FollowupStage = true
	return question
}
