package interview

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/prepmate/interview-core/core/knowledge"
	"github.com/prepmate/interview-core/core/scoring"
)

// Stage is a named phase of the interview state machine. Stages only move
// forward along setup -> await_role -> interview -> finished; the only way
// back is an explicit Reset.
type Stage string

const (
	StageSetup     Stage = "setup"
	StageAwaitRole Stage = "await_role"
	StageInterview Stage = "interview"
	StageFinished  Stage = "finished"
)

// DefaultMaxQuestions is the ceiling on scripted main questions per session
// when none is configured.
const DefaultMaxQuestions = 5

// HistoryTurn is one completed exchange between the candidate and the
// interviewer.
type HistoryTurn struct {
	UserText      string
	AssistantText string
}

// Exchange pairs a question with the candidate's answer to it.
type Exchange struct {
	Question string
	Answer   string
}

// Session captures one interview's progress. It is owned by exactly one
// caller: the orchestrator mutates it in place during Handle and nothing
// else may touch it concurrently. Hosts serving several interviewees give
// each one its own Session.
//
// CurrentQuestion and FollowupStage are always present but only meaningful
// while Stage is StageInterview.
type Session struct {
	ID        string
	StartedAt time.Time

	Stage   Stage
	Role    string
	Context *knowledge.RoleContext

	History []HistoryTurn
	Answers []Exchange
	Scores  []scoring.Record

	CurrentQuestion      string
	CurrentQuestionIndex int
	MaxQuestions         int

	FollowupStage bool
}

type SessionOption func(*Session)

// WithMaxQuestions caps the number of scripted main questions asked during
// the session.
func WithMaxQuestions(maxQuestions int) SessionOption {
	return func(s *Session) {
		if maxQuestions > 0 {
			s.MaxQuestions = maxQuestions
		}
	}
}

func NewSession(opts ...SessionOption) *Session {
	session := &Session{
		ID:           uuid.NewString(),
		StartedAt:    time.Now(),
		Stage:        StageSetup,
		MaxQuestions: DefaultMaxQuestions,
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Reset returns the session to its initial state under a fresh identity,
// discarding all progress. This is the only backward stage transition.
func (s *Session) Reset() {
	maxQuestions := s.MaxQuestions
	*s = Session{
		ID:           uuid.NewString(),
		StartedAt:    time.Now(),
		Stage:        StageSetup,
		MaxQuestions: maxQuestions,
	}
}

// Snapshot returns a point-in-time deep copy safe to hand to other
// goroutines or persist.
func (s *Session) Snapshot() Session {
	snapshot := Session{}
	_ = copier.CopyWithOption(&snapshot, s, copier.Option{DeepCopy: true})
	return snapshot
}

func (s *Session) latestValidScore() *scoring.Record {
	for _, record := range slices.Backward(s.Scores) {
		if !record.Failed() {
			return &record
		}
	}
	return nil
}
