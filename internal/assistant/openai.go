package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"

	summaryMaxTokens = 500
	requestTimeout   = 30 * time.Second
)

// Ensure Client implements Assistant
var _ Assistant = (*Client)(nil)

// Client talks to an OpenAI-compatible chat-completions API. With an empty
// API key every method goes straight to its local fallback.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// NewClient builds a Client. Empty baseURL and model fall back to the OpenAI
// defaults.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// CategorizeExpense asks the model to file the description under one of
// Categories, falling back to keyword matching on any failure.
func (c *Client) CategorizeExpense(ctx context.Context, description string) string {
	if c.apiKey == "" {
		slog.Debug("AI categorization skipped - no API key")
		return fallbackCategory(description)
	}

	system := fmt.Sprintf(
		"You are an expense categorization assistant. Categorize the given expense description into one of these categories: %s. Respond with only the category name.",
		strings.Join(Categories, ", "),
	)
	reply, err := c.chat(ctx, system, fmt.Sprintf("Categorize this expense: %q", description), 10, 0.1)
	if err != nil {
		slog.Warn("AI categorization failed, using fallback", "error", err)
		return fallbackCategory(description)
	}
	return validCategory(strings.ToLower(strings.TrimSpace(reply)))
}

// SmartSummary asks the model for a conversational summary of the aggregated
// data, falling back to a templated report on any failure.
func (c *Client) SmartSummary(ctx context.Context, query string, data SummaryData) string {
	if c.apiKey == "" {
		slog.Debug("AI summary skipped - no API key")
		return fallbackSummary(query, data)
	}

	reply, err := c.chat(ctx,
		"You are a helpful expense analysis assistant that provides conversational summaries of trip expenses.",
		buildSummaryPrompt(query, data),
		summaryMaxTokens, 0.7,
	)
	if err != nil {
		slog.Warn("AI summary failed, using fallback", "error", err, "query", query)
		return fallbackSummary(query, data)
	}
	return strings.TrimSpace(reply)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chat performs one chat-completions round trip.
func (c *Client) chat(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func validCategory(category string) string {
	for _, c := range Categories {
		if c == category {
			return category
		}
	}
	return "other"
}
