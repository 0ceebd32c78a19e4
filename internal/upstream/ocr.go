package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OCRClient posts a receipt image to the OCR collaborator, which answers with
// a list of recognized text fragments.
type OCRClient struct {
	url    string
	client *http.Client
}

func NewOCRClient(url string, timeout time.Duration) *OCRClient {
	return &OCRClient{url: url, client: newHTTPClient(timeout)}
}

func (c *OCRClient) Read(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", unavailable(CollaboratorOCR, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", unavailable(CollaboratorOCR, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var out struct {
		Fragments []string `json:"fragments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", unavailable(CollaboratorOCR, fmt.Errorf("decoding response: %w", err))
	}

	return strings.Join(out.Fragments, " "), nil
}

func (c *OCRClient) Ping(ctx context.Context) string {
	return ping(ctx, c.client, c.url)
}
