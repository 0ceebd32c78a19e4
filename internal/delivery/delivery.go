// Package delivery sends replies back to the user's messaging channel.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers one reply to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient, text string) (status string, err error)
}

const sendTimeout = 10 * time.Second

// WhatsAppClient sends replies through the WhatsApp Cloud API.
type WhatsAppClient struct {
	httpClient    *http.Client
	token         string
	phoneNumberID string
	baseURL       string
}

func NewWhatsAppClient(token, phoneNumberID string) *WhatsAppClient {
	return &WhatsAppClient{
		httpClient:    &http.Client{Timeout: sendTimeout},
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       "https://graph.facebook.com/v19.0",
	}
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppText struct {
	Body string `json:"body"`
}

func (c *WhatsAppClient) Send(ctx context.Context, recipient, text string) (string, error) {
	body, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               recipient,
		Type:             "text",
		Text:             whatsAppText{Body: text},
	})
	if err != nil {
		return "", fmt.Errorf("encoding message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, snippet)
	}

	return "sent", nil
}
