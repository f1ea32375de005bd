package texttospeech

import "errors"

var (
	// ErrVoiceNotFound covers requests for a voice the synthesizer does not
	// carry.
	ErrVoiceNotFound = errors.New("voice not found")
	// ErrSynthesisFailed covers any other failure to produce audio.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)
