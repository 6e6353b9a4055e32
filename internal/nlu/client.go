package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/config"
	"github.com/Strizzyy/care-engine/internal/domain"
)

const systemPrompt = `You classify customer support messages into exactly one label:
REFUND_REQUEST, WALLET_ISSUE, DELIVERY_ISSUE, PAYMENT_PROBLEM, ORDER_STATUS,
SUBSCRIPTION_REQUEST, GENERAL_INQUIRY.
Respond with the label only.`

// Client maps free text to an intent label using a chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new intent classifier client
func NewClient(cfg config.NLUConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ClassifyIntent returns the intent label for a message. Labels outside the
// known set are passed through unchanged; the workflow's generic branch
// handles them.
func (c *Client) ClassifyIntent(ctx context.Context, message string) (domain.Intent, error) {
	url := c.baseURL + "/v1/chat/completions"

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("NLU API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("NLU returned no choices")
	}

	label := strings.ToUpper(strings.TrimSpace(chatResp.Choices[0].Message.Content))
	c.logger.Info("Classified intent", zap.String("intent", label))

	return domain.Intent(label), nil
}
