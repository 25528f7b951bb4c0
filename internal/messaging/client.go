// Package messaging предоставляет клиент шлюза SMS и WhatsApp.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client инкапсулирует HTTP-взаимодействие со шлюзом сообщений.
// Отправка — мутация, автоматически не повторяется; сбой сообщает вызывающий.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт клиент шлюза сообщений по указанному адресу.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type sendRequest struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Text    string `json:"text"`
}

func (c *Client) send(ctx context.Context, channel, to, text string) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("messaging client not configured")
	}

	payload, err := json.Marshal(sendRequest{Channel: channel, To: to, Text: text})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}

// SendSMS отправляет SMS на указанный номер.
func (c *Client) SendSMS(ctx context.Context, to, text string) error {
	return c.send(ctx, "sms", to, text)
}

// SendWhatsApp отправляет сообщение WhatsApp на указанный номер.
func (c *Client) SendWhatsApp(ctx context.Context, to, text string) error {
	return c.send(ctx, "whatsapp", to, text)
}
