package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prepmate/interview-core/core/texttospeech"
)

const defaultSpeakEndpoint = "https://api.deepgram.com/v1/speak"

// Synthesize renders text with the given voice and returns a handle (the
// path of the written audio file). An empty voice uses the client's
// configured voice.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, voice string) (string, error) {
	selectedVoice := c.voice
	if voice != "" {
		if !slices.Contains(GetAvailableVoices(), Voice(voice)) {
			return "", fmt.Errorf("%w: %q", texttospeech.ErrVoiceNotFound, voice)
		}
		selectedVoice = Voice(voice)
	}

	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return "", fmt.Errorf("%w: deepgram api key not found", texttospeech.ErrSynthesisFailed)
	}

	speakURL, err := url.Parse(c.speakEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint: %v", texttospeech.ErrSynthesisFailed, err)
	}
	queryParams := speakURL.Query()
	queryParams.Set("model", string(selectedVoice))
	speakURL.RawQuery = queryParams.Encode()

	requestBodyBytes, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return "", fmt.Errorf("%w: %v", texttospeech.ErrSynthesisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", speakURL.String(), bytes.NewReader(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", texttospeech.ErrSynthesisFailed, err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", texttospeech.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", texttospeech.ErrVoiceNotFound, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: non-OK HTTP status: %s", texttospeech.ErrSynthesisFailed, resp.Status)
	}

	audioFile, err := os.CreateTemp(c.outputDir, "interview-reply-*.mp3")
	if err != nil {
		return "", fmt.Errorf("%w: %v", texttospeech.ErrSynthesisFailed, err)
	}
	defer audioFile.Close()

	if _, err := io.Copy(audioFile, resp.Body); err != nil {
		os.Remove(audioFile.Name())
		return "", fmt.Errorf("%w: %v", texttospeech.ErrSynthesisFailed, err)
	}

	return audioFile.Name(), nil
}
