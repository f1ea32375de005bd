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
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prepmate/interview-core/core/speechtotext"
)

const defaultListenEndpoint = "https://api.deepgram.com/v1/listen"

type prerecordedResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// TranscribeBuffer sends one complete recording to deepgram's prerecorded
// API and returns the transcript.
func (s *TranscriptionClient) TranscribeBuffer(ctx context.Context, recording []byte) (string, error) {
	if len(recording) == 0 {
		return "", fmt.Errorf("%w: empty recording", speechtotext.ErrNotFound)
	}

	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return "", fmt.Errorf("%w: deepgram api key not found", speechtotext.ErrNotFound)
	}

	listenURL, err := url.Parse(s.listenEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint: %v", speechtotext.ErrTranscriptionFailed, err)
	}
	queryParams := listenURL.Query()
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	listenURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", listenURL.String(), bytes.NewReader(recording))
	if err != nil {
		return "", fmt.Errorf("%w: %v", speechtotext.ErrTranscriptionFailed, err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", speechtotext.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", speechtotext.ErrNotFound, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: non-OK HTTP status: %s", speechtotext.ErrTranscriptionFailed, resp.Status)
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", speechtotext.ErrTranscriptionFailed, err)
	}

	var response prerecordedResponse
	if err := json.Unmarshal(respBodyBytes, &response); err != nil {
		return "", fmt.Errorf("%w: %v", speechtotext.ErrTranscriptionFailed, err)
	}

	if len(response.Results.Channels) == 0 || len(response.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("%w: no transcript returned", speechtotext.ErrTranscriptionFailed)
	}

	return strings.TrimSpace(response.Results.Channels[0].Alternatives[0].Transcript), nil
}
