package interview

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/prepmate/interview-core/core/scoring"
)

const defaultCompetencyLimit = 3

// Orchestrator drives practice interview sessions. It owns no session state
// itself; every call takes the session it should act on, so one orchestrator
// can serve any number of concurrent sessions.
//
// All external capabilities are optional. An orchestrator with no clients
// wired still runs a complete interview, it just produces error-sentinel
// scores, canned follow-ups and the deterministic close-out report.
type Orchestrator struct {
	generator    generatorGateway
	scorer       scorerGateway
	knowledge    knowledgeGateway
	speechToText speechToTextGateway
	textToSpeech textToSpeechGateway

	voice           string
	competencyLimit int
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	orchestrator := &Orchestrator{
		competencyLimit: defaultCompetencyLimit,
	}

	for _, opt := range opts {
		opt(orchestrator)
	}

	return orchestrator
}

// Reply is the orchestrator's response to one user turn.
type Reply struct {
	// Text is the next thing the interviewer says. Never empty.
	Text string
	// AudioHandle locates synthesized audio for Text. Empty when no
	// text-to-speech client is wired or synthesis failed.
	AudioHandle string
	// ScoreSnapshot is the most recent successfully scored answer, nil
	// until one exists.
	ScoreSnapshot *scoring.Record
}

// ErrNilSession is returned when a turn is handled without a session.
var ErrNilSession = errors.New("nil session")

// Handle advances a session by one user turn and returns the interviewer's
// reply. Input that fails validation (a blank answer, an unknown role)
// produces a re-prompt without mutating the session, so the caller can
// simply try again.
func (o *Orchestrator) Handle(ctx context.Context, session *Session, input string) (Reply, error) {
	if session == nil {
		return Reply{}, ErrNilSession
	}

	ctx, span := tracer.Start(ctx, "handle turn", trace.WithAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("session.stage", string(session.Stage)),
	))
	defer span.End()

	var reply Reply
	switch session.Stage {
	case StageSetup:
		reply = o.handleSetup(ctx, session, input)
	case StageAwaitRole:
		reply = o.handleAwaitRole(ctx, session, input)
	case StageInterview:
		reply = o.handleInterview(ctx, session, input)
	case StageFinished:
		reply = Reply{Text: finishedNotice}
	default:
		return Reply{}, errors.New("unknown session stage: " + string(session.Stage))
	}

	reply.ScoreSnapshot = session.latestValidScore()
	o.synthesizeReply(ctx, &reply)

	return reply, nil
}

// HandleAudio transcribes one complete recording and advances the session
// with the resulting text. Transcription failures re-prompt without
// touching the session.
func (o *Orchestrator) HandleAudio(ctx context.Context, session *Session, recording []byte) (Reply, error) {
	if session == nil {
		return Reply{}, ErrNilSession
	}

	ctx, span := tracer.Start(ctx, "handle audio turn")
	defer span.End()

	transcript, err := o.speechToText.transcribe(ctx, recording)
	if err != nil || strings.TrimSpace(transcript) == "" {
		if err != nil {
			logger.WarnContext(ctx, "failed to transcribe recording", "error", err)
		}
		reply := Reply{Text: transcriptionFailedPrompt, ScoreSnapshot: session.latestValidScore()}
		o.synthesizeReply(ctx, &reply)
		return reply, nil
	}

	return o.Handle(ctx, session, transcript)
}

func (o *Orchestrator) handleSetup(_ context.Context, session *Session, input string) Reply {
	session.Stage = StageAwaitRole

	text := rolePrompt()
	session.History = append(session.History, HistoryTurn{UserText: input, AssistantText: text})

	return Reply{Text: text}
}

func (o *Orchestrator) handleAwaitRole(ctx context.Context, session *Session, input string) Reply {
	role, ok := normalizeRole(input)
	if !ok {
		return Reply{Text: unknownRolePrompt()}
	}

	roleContext := o.knowledge.load(ctx, role)
	if roleContext == nil || len(roleContext.BaseQuestions) == 0 {
		return Reply{Text: roleUnavailablePrompt()}
	}

	session.Role = role
	session.Context = roleContext
	session.Stage = StageInterview

	question := advanceScriptedQuestion(session)

	roleName := roleContext.Role
	if roleName == "" {
		roleName = role
	}
	text := firstQuestionReply(roleName, question)
	session.History = append(session.History, HistoryTurn{UserText: input, AssistantText: text})

	return Reply{Text: text}
}

func (o *Orchestrator) handleInterview(ctx context.Context, session *Session, input string) Reply {
	if strings.TrimSpace(input) == "" {
		return Reply{Text: blankAnswerPrompt}
	}

	// The answer and its score land together so the two slices never
	// drift apart, even when scoring failed.
	record := o.scorer.evaluate(ctx, session.CurrentQuestion, input, session.Role)
	session.Answers = append(session.Answers, Exchange{
		Question: session.CurrentQuestion,
		Answer:   input,
	})
	session.Scores = append(session.Scores, record)

	var text string
	switch nextTurn(session) {
	case turnFollowup:
		question := o.generateFollowup(ctx, session)
		session.CurrentQuestion = question
		session.FollowupStage = false
		text = question
	case turnScripted:
		question := advanceScriptedQuestion(session)
		text = scriptedQuestionReply(session.CurrentQuestionIndex, question)
	case turnFinished:
		text = o.composeSummary(ctx, session)
		session.Stage = StageFinished
		session.CurrentQuestion = ""
		session.FollowupStage = false
	}

	session.History = append(session.History, HistoryTurn{UserText: input, AssistantText: text})

	return Reply{Text: text}
}

func (o *Orchestrator) generateFollowup(ctx context.Context, session *Session) string {
	var competencies []string
	if session.Context != nil {
		competencies = capped(session.Context.Competencies, o.competencyLimit)
	}
	last := session.Answers[len(session.Answers)-1]

	return callWithFallback(ctx, "follow-up generation",
		func(error) string { return fallbackFollowupQuestion },
		func(ctx context.Context) (string, error) {
			response, err := o.generator.generate(ctx, followupMessages(session.Role, last, competencies), followupTemperature)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(response) == "" {
				return "", errors.New("empty follow-up")
			}
			return strings.TrimSpace(response), nil
		},
	)
}

// synthesizeReply attaches an audio handle when a text-to-speech client is
// wired. Synthesis failures leave the handle empty; the text reply always
// stands on its own.
func (o *Orchestrator) synthesizeReply(ctx context.Context, reply *Reply) {
	if !o.textToSpeech.isConfigured() || reply.Text == "" {
		return
	}

	reply.AudioHandle = callWithFallback(ctx, "speech synthesis",
		func(error) string { return "" },
		func(ctx context.Context) (string, error) {
			return o.textToSpeech.synthesize(ctx, reply.Text, o.voice)
		},
	)
}
