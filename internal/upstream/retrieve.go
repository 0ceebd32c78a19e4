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

// RetrieveClient asks the retrieval collaborator for a context passage
// relevant to a question. Callers are expected to degrade gracefully when it
// fails; this client only reports the failure.
type RetrieveClient struct {
	url    string
	client *http.Client
}

func NewRetrieveClient(url string, timeout time.Duration) *RetrieveClient {
	return &RetrieveClient{url: url, client: newHTTPClient(timeout)}
}

type retrieveRequest struct {
	Query string `json:"query"`
}

type retrieveResponse struct {
	Context string `json:"context"`
}

func (c *RetrieveClient) Retrieve(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(retrieveRequest{Query: query})
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
		return "", unavailable(CollaboratorRetrieve, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", unavailable(CollaboratorRetrieve, fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var out retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", unavailable(CollaboratorRetrieve, fmt.Errorf("decoding response: %w", err))
	}

	return out.Context, nil
}

func (c *RetrieveClient) Ping(ctx context.Context) string {
	return ping(ctx, c.client, c.url)
}
