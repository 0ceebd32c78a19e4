package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GenerateClient calls the text-generation collaborator. The contract is a
// bare `{prompt, max_new_tokens}` request answered with `{text}`.
type GenerateClient struct {
	url    string
	client *http.Client
}

func NewGenerateClient(url string, timeout time.Duration) *GenerateClient {
	return &GenerateClient{url: url, client: newHTTPClient(timeout)}
}

type generateRequest struct {
	Prompt       string `json:"prompt"`
	MaxNewTokens int    `json:"max_new_tokens"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (c *GenerateClient) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, MaxNewTokens: maxNewTokens})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", unavailable(CollaboratorGenerate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", unavailable(CollaboratorGenerate, fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", unavailable(CollaboratorGenerate, fmt.Errorf("decoding response: %w", err))
	}

	return out.Text, nil
}

func (c *GenerateClient) Ping(ctx context.Context) string {
	return ping(ctx, c.client, c.url)
}
