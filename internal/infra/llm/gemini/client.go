// Package gemini talks to the Gemini API through its OpenAI-compatible
// chat completions endpoint.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/gaiashield/gaiashield/internal/domain/analysis"
	"github.com/gaiashield/gaiashield/internal/infra/llm/prompt"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultTimeout = 60 * time.Second

	maxTokens         = 2048
	defaultMaxRetries = 2
	charsPerToken     = 4
)

// Gemini 2.5 Flash list prices, USD per million tokens.
var (
	inputPricePerMTok  = decimal.NewFromFloat(0.075)
	outputPricePerMTok = decimal.NewFromFloat(0.30)
	oneMillion         = decimal.NewFromInt(1_000_000)
)

type Client struct {
	api        *openai.Client
	model      string
	maxRetries int
}

// NewClient builds a client for the given credential. An empty apiKey yields
// an unconfigured client whose GenerateJSON fails with ConfigurationError;
// the caller decides whether that means demo mode. Every call is bounded by
// timeout; a hung connection counts as a failed attempt and feeds the retry
// loop like any transport error.
func NewClient(apiKey, model, baseURL string, maxRetries int, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{model: model, maxRetries: maxRetries}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		cfg.HTTPClient = &http.Client{Timeout: timeout}
		c.api = openai.NewClientWithConfig(cfg)
	}
	return c
}

func (c *Client) Configured() bool { return c.api != nil }

// GenerateJSON asks the model for a strict-JSON completion. Attempts that
// fail on the network or return unparseable text are retried up to the
// configured limit with a corrective prefix on the user message; exhaustion
// surfaces as ModelUnavailableError. The returned bytes are guaranteed to
// parse as JSON but are not schema-checked here.
func (c *Client) GenerateJSON(ctx context.Context, task analysis.Task, systemPrompt string, payload any, temperature float64) (json.RawMessage, error) {
	if c.api == nil {
		return nil, &analysis.ConfigurationError{Missing: "GOOGLE_API_KEY"}
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	basePrompt := prompt.UserPrompt(task, string(pretty))
	userPrompt := basePrompt

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		raw, err := c.attempt(ctx, systemPrompt, userPrompt, temperature)
		if err == nil {
			c.logPerformance(task, len(systemPrompt)+len(userPrompt), len(raw), start)
			return raw, nil
		}
		lastErr = err
		log.Printf("llm generation failed task=%s attempt=%d err=%v", task, attempt, err)
		if attempt < c.maxRetries {
			userPrompt = prompt.RetryPrefix + basePrompt
		}
	}

	log.Printf("llm generation exhausted retries task=%s attempts=%d", task, c.maxRetries)
	return nil, &analysis.ModelUnavailableError{Attempts: c.maxRetries, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (json.RawMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	text := stripFences(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("model returned empty response")
	}
	if !json.Valid([]byte(text)) {
		return nil, errors.New("model returned non-JSON response")
	}
	return json.RawMessage(text), nil
}

// stripFences removes a markdown code fence wrapper that some models emit
// despite the JSON response format.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// logPerformance emits the per-call metric record. Token and cost figures
// are chars-per-token approximations, not billing-grade numbers.
func (c *Client) logPerformance(task analysis.Task, inChars, outChars int, start time.Time) {
	inTokens := (inChars + charsPerToken - 1) / charsPerToken
	outTokens := (outChars + charsPerToken - 1) / charsPerToken
	cost := decimal.NewFromInt(int64(inTokens)).Mul(inputPricePerMTok).
		Add(decimal.NewFromInt(int64(outTokens)).Mul(outputPricePerMTok)).
		Div(oneMillion)
	log.Printf("llm generation completed task=%s duration_ms=%d tokens_estimated=%d cost_usd_estimated=%s",
		task, time.Since(start).Milliseconds(), inTokens+outTokens, cost.StringFixed(6))
}
