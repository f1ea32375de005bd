package llms

import "errors"

var (
	// ErrServiceUnavailable covers network and authentication failures
	// reaching the model provider.
	ErrServiceUnavailable = errors.New("llm service unavailable")
	// ErrMalformedResponse covers provider payloads that do not match the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed llm response")
)
