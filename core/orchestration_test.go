package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prepmate/interview-core/core/knowledge"
	"github.com/prepmate/interview-core/core/llms"
	"github.com/prepmate/interview-core/core/scoring"
)

type stubGenerator struct {
	response string
	err      error

	calls           int
	lastMessages    []llms.Message
	lastTemperature float32

	respond func(messages []llms.Message, temperature float32) (string, error)
}

func (g *stubGenerator) Generate(_ context.Context, messages []llms.Message, temperature float32) (string, error) {
	g.calls++
	g.lastMessages = messages
	g.lastTemperature = temperature
	if g.respond != nil {
		return g.respond(messages, temperature)
	}
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type stubScorer struct {
	record scoring.Record
	calls  int
}

func (s *stubScorer) Evaluate(_ context.Context, _, _, _ string) scoring.Record {
	s.calls++
	return s.record
}

type stubKnowledgeBase struct {
	contexts map[string]*knowledge.RoleContext
	err      error
}

func (k *stubKnowledgeBase) Load(_ context.Context, role string) (*knowledge.RoleContext, error) {
	if k.err != nil {
		return nil, k.err
	}
	return k.contexts[role], nil
}

type stubSpeechToText struct {
	transcript string
	err        error
}

func (s *stubSpeechToText) TranscribeBuffer(_ context.Context, _ []byte) (string, error) {
	return s.transcript, s.err
}

type stubTextToSpeech struct {
	path      string
	err       error
	lastText  string
	lastVoice string
}

func (s *stubTextToSpeech) Synthesize(_ context.Context, text string, voice string) (string, error) {
	s.lastText = text
	s.lastVoice = voice
	return s.path, s.err
}

func goodRecord(score int) scoring.Record {
	return scoring.Record{
		Communication: score,
		Technical:     score,
		Behavioral:    score,
		Structure:     score,
		Strengths:     []string{"clear delivery"},
		Improvements:  []string{"add more detail"},
	}
}

func engineerContext(questions int) *knowledge.RoleContext {
	roleContext := &knowledge.RoleContext{
		Role:         "Software Engineer",
		Competencies: []string{"problem solving", "system design", "communication", "testing"},
	}
	for i := range questions {
		roleContext.BaseQuestions = append(roleContext.BaseQuestions, fmt.Sprintf("Scripted question %d?", i+1))
	}
	return roleContext
}

func testKnowledgeBase(questions int) *stubKnowledgeBase {
	return &stubKnowledgeBase{contexts: map[string]*knowledge.RoleContext{
		"engineer": engineerContext(questions),
	}}
}

// startInterview drives a fresh session through setup and role selection so
// interview-stage tests can start at the first scripted question.
func startInterview(t *testing.T, o *Orchestrator, session *Session) {
	t.Helper()

	if _, err := o.Handle(context.Background(), session, "hello"); err != nil {
		t.Fatalf("setup turn failed: %v", err)
	}
	reply, err := o.Handle(context.Background(), session, "software engineer")
	if err != nil {
		t.Fatalf("role turn failed: %v", err)
	}
	if session.Stage != StageInterview {
		t.Fatalf("expected interview stage after role selection, got %q", session.Stage)
	}
	if !strings.Contains(reply.Text, "Question 1") {
		t.Fatalf("expected first scripted question in reply, got %q", reply.Text)
	}
}

func TestSetupTurnMovesToRolePrompt(t *testing.T) {
	o := NewOrchestrator()
	session := NewSession()

	reply, err := o.Handle(context.Background(), session, "hi there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageAwaitRole {
		t.Fatalf("expected stage %q, got %q", StageAwaitRole, session.Stage)
	}
	if !strings.Contains(reply.Text, "engineer") {
		t.Fatalf("expected role prompt to list available roles, got %q", reply.Text)
	}
	if len(session.History) != 1 {
		t.Fatalf("expected one history turn, got %d", len(session.History))
	}
}

func TestUnknownRoleRepromptsWithoutMutation(t *testing.T) {
	o := NewOrchestrator(WithKnowledgeBase(testKnowledgeBase(3)))
	session := NewSession()
	session.Stage = StageAwaitRole

	reply, err := o.Handle(context.Background(), session, "astronaut")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageAwaitRole {
		t.Fatalf("expected stage to stay %q, got %q", StageAwaitRole, session.Stage)
	}
	if session.Role != "" || session.Context != nil {
		t.Fatalf("expected no role assignment, got role %q", session.Role)
	}
	if len(session.History) != 0 {
		t.Fatalf("expected re-prompt to leave history untouched, got %d turns", len(session.History))
	}
	if !strings.Contains(reply.Text, "engineer") {
		t.Fatalf("expected available roles in re-prompt, got %q", reply.Text)
	}
}

func TestRoleSynonymResolvesRole(t *testing.T) {
	o := NewOrchestrator(WithKnowledgeBase(testKnowledgeBase(3)))
	session := NewSession()
	session.Stage = StageAwaitRole

	if _, err := o.Handle(context.Background(), session, "I'd like to practice as a Software Engineer, please"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Role != "engineer" {
		t.Fatalf("expected role %q, got %q", "engineer", session.Role)
	}
	if session.Stage != StageInterview {
		t.Fatalf("expected stage %q, got %q", StageInterview, session.Stage)
	}
	if session.CurrentQuestionIndex != 1 || !session.FollowupStage {
		t.Fatalf("expected first question consumed (index 1, follow-up pending), got index %d follow-up %t",
			session.CurrentQuestionIndex, session.FollowupStage)
	}
}

func TestKnownRoleWithoutContextReprompts(t *testing.T) {
	o := NewOrchestrator(WithKnowledgeBase(&stubKnowledgeBase{contexts: map[string]*knowledge.RoleContext{}}))
	session := NewSession()
	session.Stage = StageAwaitRole

	reply, err := o.Handle(context.Background(), session, "sales")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageAwaitRole {
		t.Fatalf("expected stage to stay %q, got %q", StageAwaitRole, session.Stage)
	}
	if !strings.Contains(reply.Text, "couldn't load") {
		t.Fatalf("expected unavailable-role prompt, got %q", reply.Text)
	}
}

func TestKnowledgeBaseErrorIsAbsorbed(t *testing.T) {
	o := NewOrchestrator(WithKnowledgeBase(&stubKnowledgeBase{err: errors.New("disk on fire")}))
	session := NewSession()
	session.Stage = StageAwaitRole

	reply, err := o.Handle(context.Background(), session, "engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Stage != StageAwaitRole {
		t.Fatalf("expected stage to stay %q, got %q", StageAwaitRole, session.Stage)
	}
	if !strings.Contains(reply.Text, "couldn't load") {
		t.Fatalf("expected unavailable-role prompt, got %q", reply.Text)
	}
}

func TestInterviewAlternatesScriptedAndFollowup(t *testing.T) {
	generator := &stubGenerator{respond: func(_ []llms.Message, temperature float32) (string, error) {
		if temperature == summaryTemperature {
			return "Great interview, well done.", nil
		}
		return "Why did you choose that approach?", nil
	}}
	scorer := &stubScorer{record: goodRecord(7)}
	o := NewOrchestrator(
		WithGenerator(generator),
		WithScorer(scorer),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession(WithMaxQuestions(3))
	startInterview(t, o, session)

	var followups, scripted int
	for turn := 0; session.Stage == StageInterview; turn++ {
		if turn > 20 {
			t.Fatalf("interview did not terminate")
		}

		reply, err := o.Handle(context.Background(), session, fmt.Sprintf("answer %d", turn))
		if err != nil {
			t.Fatalf("turn %d failed: %v", turn, err)
		}

		if session.CurrentQuestionIndex > session.MaxQuestions {
			t.Fatalf("question index %d exceeded ceiling %d", session.CurrentQuestionIndex, session.MaxQuestions)
		}
		if len(session.Scores) != len(session.Answers) {
			t.Fatalf("scores (%d) and answers (%d) drifted apart", len(session.Scores), len(session.Answers))
		}

		switch {
		case strings.Contains(reply.Text, "Why did you choose"):
			followups++
		case strings.HasPrefix(reply.Text, "Question "):
			scripted++
		}
	}

	// Question 1 is asked during role selection, so the loop sees two more
	// scripted questions and three follow-ups before the summary turn.
	if scripted != 2 {
		t.Fatalf("expected 2 scripted questions during the interview, got %d", scripted)
	}
	if followups != 3 {
		t.Fatalf("expected 3 follow-up questions, got %d", followups)
	}
	if len(session.Answers) != 6 {
		t.Fatalf("expected 6 answered turns, got %d", len(session.Answers))
	}
	if session.Stage != StageFinished {
		t.Fatalf("expected stage %q, got %q", StageFinished, session.Stage)
	}
	if session.CurrentQuestion != "" {
		t.Fatalf("expected current question cleared after finish, got %q", session.CurrentQuestion)
	}
}

func TestShortScriptEndsBeforeCeiling(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{response: "Tell me more."}),
		WithScorer(&stubScorer{record: goodRecord(6)}),
		WithKnowledgeBase(testKnowledgeBase(2)),
	)
	session := NewSession(WithMaxQuestions(5))
	startInterview(t, o, session)

	for turn := 0; session.Stage == StageInterview; turn++ {
		if turn > 20 {
			t.Fatalf("interview did not terminate")
		}
		if _, err := o.Handle(context.Background(), session, "an answer"); err != nil {
			t.Fatalf("turn %d failed: %v", turn, err)
		}
	}

	if len(session.Answers) != 4 {
		t.Fatalf("expected interview to end after 2 scripted + 2 follow-up answers, got %d", len(session.Answers))
	}
	if session.CurrentQuestionIndex != 2 {
		t.Fatalf("expected question index 2, got %d", session.CurrentQuestionIndex)
	}
}

func TestBlankAnswerRepromptsWithoutMutation(t *testing.T) {
	scorer := &stubScorer{record: goodRecord(7)}
	o := NewOrchestrator(
		WithScorer(scorer),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession()
	startInterview(t, o, session)

	before := session.Snapshot()
	reply, err := o.Handle(context.Background(), session, "   \n\t ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(reply.Text, "didn't catch") {
		t.Fatalf("expected blank-answer re-prompt, got %q", reply.Text)
	}
	if scorer.calls != 0 {
		t.Fatalf("expected blank answer to skip scoring, got %d calls", scorer.calls)
	}
	if len(session.Answers) != len(before.Answers) || session.CurrentQuestionIndex != before.CurrentQuestionIndex {
		t.Fatalf("expected blank answer to leave session untouched")
	}
}

func TestScoringFailureStillAdvances(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{response: "And then what happened?"}),
		WithScorer(&stubScorer{record: scoring.Failure(errors.New("model unavailable"))}),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession()
	startInterview(t, o, session)

	reply, err := o.Handle(context.Background(), session, "my answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(session.Scores) != 1 || !session.Scores[0].Failed() {
		t.Fatalf("expected one error-sentinel score, got %+v", session.Scores)
	}
	if len(session.Answers) != 1 {
		t.Fatalf("expected the answer to be recorded, got %d", len(session.Answers))
	}
	if reply.ScoreSnapshot != nil {
		t.Fatalf("expected no score snapshot when every score failed, got %+v", reply.ScoreSnapshot)
	}
	if reply.Text == "" {
		t.Fatalf("expected the interview to continue with a follow-up")
	}
}

func TestScoreSnapshotIsLatestValidScore(t *testing.T) {
	scorer := &stubScorer{record: goodRecord(8)}
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{response: "Go on."}),
		WithScorer(scorer),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession()
	startInterview(t, o, session)

	reply, err := o.Handle(context.Background(), session, "a solid answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.ScoreSnapshot == nil || reply.ScoreSnapshot.Communication != 8 {
		t.Fatalf("expected snapshot of the scored answer, got %+v", reply.ScoreSnapshot)
	}

	scorer.record = scoring.Failure(errors.New("model unavailable"))
	reply, err = o.Handle(context.Background(), session, "another answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.ScoreSnapshot == nil || reply.ScoreSnapshot.Communication != 8 {
		t.Fatalf("expected snapshot to fall back to the last valid score, got %+v", reply.ScoreSnapshot)
	}
}

func TestUnconfiguredScorerRecordsSentinel(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{response: "Interesting, tell me more."}),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession()
	startInterview(t, o, session)

	if _, err := o.Handle(context.Background(), session, "my answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(session.Scores) != 1 || !session.Scores[0].Failed() {
		t.Fatalf("expected an error-sentinel score without a scorer, got %+v", session.Scores)
	}
}

func TestFollowupFallsBackWhenGenerationFails(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{err: llms.ErrServiceUnavailable}),
		WithScorer(&stubScorer{record: goodRecord(5)}),
		WithKnowledgeBase(testKnowledgeBase(3)),
	)
	session := NewSession()
	startInterview(t, o, session)

	reply, err := o.Handle(context.Background(), session, "my answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Text != fallbackFollowupQuestion {
		t.Fatalf("expected canned follow-up, got %q", reply.Text)
	}
	if session.CurrentQuestion != fallbackFollowupQuestion {
		t.Fatalf("expected session to track the asked follow-up, got %q", session.CurrentQuestion)
	}
	if session.FollowupStage {
		t.Fatalf("expected follow-up flag cleared after asking the follow-up")
	}
}

func TestFollowupUsesCompetenciesAndAnswer(t *testing.T) {
	generator := &stubGenerator{response: "How did you validate that?"}
	o := NewOrchestrator(
		WithGenerator(generator),
		WithScorer(&stubScorer{record: goodRecord(7)}),
		WithKnowledgeBase(testKnowledgeBase(3)),
		WithCompetencyLimit(2),
	)
	session := NewSession()
	startInterview(t, o, session)

	if _, err := o.Handle(context.Background(), session, "I shipped a cache layer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if generator.lastTemperature != followupTemperature {
		t.Fatalf("expected follow-up temperature %v, got %v", followupTemperature, generator.lastTemperature)
	}
	prompt := generator.lastMessages[len(generator.lastMessages)-1].Content
	if !strings.Contains(prompt, "I shipped a cache layer") {
		t.Fatalf("expected the candidate's answer in the prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "problem solving, system design") {
		t.Fatalf("expected capped competencies in the prompt, got %q", prompt)
	}
	if strings.Contains(prompt, "communication,") {
		t.Fatalf("expected competencies beyond the cap to be dropped, got %q", prompt)
	}
}

func TestSummaryGenerationUsesAggregatedScores(t *testing.T) {
	generator := &stubGenerator{respond: func(messages []llms.Message, temperature float32) (string, error) {
		if temperature == summaryTemperature {
			return "You did great overall.", nil
		}
		return "A follow-up question?", nil
	}}
	o := NewOrchestrator(
		WithGenerator(generator),
		WithScorer(&stubScorer{record: goodRecord(9)}),
		WithKnowledgeBase(testKnowledgeBase(1)),
	)
	session := NewSession(WithMaxQuestions(1))
	startInterview(t, o, session)

	if _, err := o.Handle(context.Background(), session, "scripted answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, err := o.Handle(context.Background(), session, "follow-up answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageFinished {
		t.Fatalf("expected stage %q, got %q", StageFinished, session.Stage)
	}
	if reply.Text != "You did great overall." {
		t.Fatalf("expected generated summary, got %q", reply.Text)
	}
	prompt := generator.lastMessages[len(generator.lastMessages)-1].Content
	if !strings.Contains(prompt, "Communication: 9/10") {
		t.Fatalf("expected aggregated scores in the summary prompt, got %q", prompt)
	}
}

func TestSummaryFallsBackToDeterministicReport(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{err: llms.ErrServiceUnavailable}),
		WithScorer(&stubScorer{record: goodRecord(6)}),
		WithKnowledgeBase(testKnowledgeBase(1)),
	)
	session := NewSession(WithMaxQuestions(1))
	startInterview(t, o, session)

	if _, err := o.Handle(context.Background(), session, "scripted answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, err := o.Handle(context.Background(), session, "follow-up answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(reply.Text, "Interview Complete!") {
		t.Fatalf("expected deterministic close-out report, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Communication: 6/10") {
		t.Fatalf("expected aggregated scores in the report, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "clear delivery") {
		t.Fatalf("expected collected strengths in the report, got %q", reply.Text)
	}
}

func TestSummaryWithoutValidScores(t *testing.T) {
	o := NewOrchestrator(
		WithGenerator(&stubGenerator{response: "a follow-up"}),
		WithScorer(&stubScorer{record: scoring.Failure(errors.New("model unavailable"))}),
		WithKnowledgeBase(testKnowledgeBase(1)),
	)
	session := NewSession(WithMaxQuestions(1))
	startInterview(t, o, session)

	if _, err := o.Handle(context.Background(), session, "scripted answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, err := o.Handle(context.Background(), session, "follow-up answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageFinished {
		t.Fatalf("expected stage %q, got %q", StageFinished, session.Stage)
	}
	if reply.Text != noScoresMessage {
		t.Fatalf("expected no-scores close-out, got %q", reply.Text)
	}
}

func TestFinishedStageIsFrozen(t *testing.T) {
	scorer := &stubScorer{record: goodRecord(7)}
	o := NewOrchestrator(WithScorer(scorer))
	session := NewSession()
	session.Stage = StageFinished

	for range 3 {
		reply, err := o.Handle(context.Background(), session, "hello again")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply.Text != finishedNotice {
			t.Fatalf("expected finished notice, got %q", reply.Text)
		}
	}

	if scorer.calls != 0 {
		t.Fatalf("expected no scoring after the interview ended, got %d calls", scorer.calls)
	}
	if len(session.Answers) != 0 || len(session.History) != 0 {
		t.Fatalf("expected a finished session to stay frozen")
	}
}

func TestHandleNilSession(t *testing.T) {
	o := NewOrchestrator()

	if _, err := o.Handle(context.Background(), nil, "hello"); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if _, err := o.HandleAudio(context.Background(), nil, []byte{0x01}); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
}

func TestHandleAudioAdvancesWithTranscript(t *testing.T) {
	o := NewOrchestrator(WithSpeechToText(&stubSpeechToText{transcript: "hello there"}))
	session := NewSession()

	reply, err := o.HandleAudio(context.Background(), session, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Stage != StageAwaitRole {
		t.Fatalf("expected transcript to advance the session, got stage %q", session.Stage)
	}
	if !strings.Contains(reply.Text, "Which role") {
		t.Fatalf("expected role prompt, got %q", reply.Text)
	}
}

func TestHandleAudioTranscriptionFailureReprompts(t *testing.T) {
	o := NewOrchestrator(WithSpeechToText(&stubSpeechToText{err: errors.New("upstream 500")}))
	session := NewSession()

	reply, err := o.HandleAudio(context.Background(), session, []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.Text != transcriptionFailedPrompt {
		t.Fatalf("expected transcription re-prompt, got %q", reply.Text)
	}
	if session.Stage != StageSetup {
		t.Fatalf("expected failed transcription to leave the session untouched, got stage %q", session.Stage)
	}
}

func TestRepliesCarryAudioHandle(t *testing.T) {
	tts := &stubTextToSpeech{path: "/tmp/reply.mp3"}
	o := NewOrchestrator(WithTextToSpeech(tts), WithVoice("aura-asteria-en"))
	session := NewSession()

	reply, err := o.Handle(context.Background(), session, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.AudioHandle != "/tmp/reply.mp3" {
		t.Fatalf("expected audio handle, got %q", reply.AudioHandle)
	}
	if tts.lastVoice != "aura-asteria-en" {
		t.Fatalf("expected configured voice, got %q", tts.lastVoice)
	}
	if tts.lastText != reply.Text {
		t.Fatalf("expected reply text to be synthesized, got %q", tts.lastText)
	}
}

func TestSynthesisFailureLeavesTextReply(t *testing.T) {
	o := NewOrchestrator(WithTextToSpeech(&stubTextToSpeech{err: errors.New("voice service down")}))
	session := NewSession()

	reply, err := o.Handle(context.Background(), session, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reply.AudioHandle != "" {
		t.Fatalf("expected empty audio handle on synthesis failure, got %q", reply.AudioHandle)
	}
	if reply.Text == "" {
		t.Fatalf("expected the text reply to stand on its own")
	}
}
