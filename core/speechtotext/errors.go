package speechtotext

import "errors"

var (
	// ErrNotFound covers missing audio or a missing transcription model.
	ErrNotFound = errors.New("audio or transcription model not found")
	// ErrTranscriptionFailed covers any other failure to produce a
	// transcript.
	ErrTranscriptionFailed = errors.New("transcription failed")
)
