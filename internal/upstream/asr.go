package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Transcript is the ASR collaborator's answer for one audio file.
type Transcript struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code"`
	Confidence   float64 `json:"confidence"`
}

// ASRClient posts audio to the transcription collaborator.
type ASRClient struct {
	url    string
	client *http.Client
}

func NewASRClient(url string, timeout time.Duration) *ASRClient {
	return &ASRClient{url: url, client: newHTTPClient(timeout)}
}

func (c *ASRClient) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcript, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, unavailable(CollaboratorASR, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, unavailable(CollaboratorASR, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var transcript Transcript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, unavailable(CollaboratorASR, fmt.Errorf("decoding response: %w", err))
	}

	return &transcript, nil
}

func (c *ASRClient) Ping(ctx context.Context) string {
	return ping(ctx, c.client, c.url)
}
