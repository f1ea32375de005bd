package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prepmate/interview-core/core/speechtotext"
)

// TranscriptionClient streams audio to deepgram over a websocket and also
// supports one-shot transcription of complete recordings.
type TranscriptionClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs time.Time

	accumulatedTranscript string
	unendedSegment        bool

	listenEndpoint string
}

type ClientOption func(*TranscriptionClient)

// WithListenEndpoint overrides the REST transcription URL, primarily for
// tests.
func WithListenEndpoint(endpoint string) ClientOption {
	return func(c *TranscriptionClient) {
		if endpoint != "" {
			c.listenEndpoint = endpoint
		}
	}
}

func NewTranscriptionClient(opts ...ClientOption) *TranscriptionClient {
	client := &TranscriptionClient{listenEndpoint: defaultListenEndpoint}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type callbackConfig struct {
	partialInterimTranscriptionCallback func(transcript string)
	interimTranscriptionCallback        func(transcript string)
	partialTranscriptionCallback        func(transcript string)
	transcriptionCallback               func(transcript string)

	startSpeechCallback func()
	endSpeechCallback   func()

	hasPartialInterim bool
	hasInterim        bool
	hasTranscription  bool
}

type websocketConfig struct {
	shouldDetectSpeechStart            bool
	shouldEnhanceSpeechEndingDetection bool
	shouldRequestInterimResults        bool
}

// newCallbackConfig normalizes the configured callbacks into noop-safe
// functions plus the websocket features needed to service them.
func newCallbackConfig(options speechtotext.TranscriptionOptions) (callbackConfig, websocketConfig) {
	callbacks := callbackConfig{
		partialInterimTranscriptionCallback: func(string) {},
		interimTranscriptionCallback:        func(string) {},
		partialTranscriptionCallback:        func(string) {},
		transcriptionCallback:               func(string) {},
		startSpeechCallback:                 func() {},
		endSpeechCallback:                   func() {},
	}

	if options.PartialInterimTranscriptionCallback != nil {
		callbacks.partialInterimTranscriptionCallback = options.PartialInterimTranscriptionCallback
		callbacks.hasPartialInterim = true
	}
	if options.InterimTranscriptionCallback != nil {
		callbacks.interimTranscriptionCallback = options.InterimTranscriptionCallback
		callbacks.hasInterim = true
	}
	if options.PartialTranscriptionCallback != nil {
		callbacks.partialTranscriptionCallback = options.PartialTranscriptionCallback
	}
	if options.TranscriptionCallback != nil {
		callbacks.transcriptionCallback = options.TranscriptionCallback
		callbacks.hasTranscription = true
	}
	if options.SpeechStartedCallback != nil {
		callbacks.startSpeechCallback = options.SpeechStartedCallback
	}
	if options.SpeechEndedCallback != nil {
		callbacks.endSpeechCallback = options.SpeechEndedCallback
	}

	wsConfig := websocketConfig{
		shouldDetectSpeechStart: options.SpeechStartedCallback != nil,
		shouldEnhanceSpeechEndingDetection: options.TranscriptionCallback != nil ||
			options.SpeechEndedCallback != nil,
		shouldRequestInterimResults: options.InterimTranscriptionCallback != nil ||
			options.PartialInterimTranscriptionCallback != nil,
	}

	return callbacks, wsConfig
}
