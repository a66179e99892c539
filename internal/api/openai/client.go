package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Alias1177/CryptoPredict/internal/prompt"
	httpClient "github.com/Alias1177/CryptoPredict/internal/platform/http"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultModel     = "gpt-3.5-turbo"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// Client sends prediction prompts to a chat completions endpoint
type Client struct {
	endpoint     string
	model        string
	systemPrompt string
	apiKey       func() string
	httpClient   *httpClient.Client
	logger       zerolog.Logger
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Endpoint     string
	Model        string
	SystemPrompt string
	// APIKeyEnv names the environment variable holding the bearer credential.
	// It is read on every call.
	APIKeyEnv      string
	APIKey         func() string
	RequestTimeout time.Duration
	RequestsPerSec int
	MaxRetries     int
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
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new completions client
func NewClient(opts ClientOptions) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = prompt.SystemPrompt
	}
	if opts.APIKey == nil {
		env := opts.APIKeyEnv
		if env == "" {
			env = DefaultAPIKeyEnv
		}
		opts.APIKey = func() string { return os.Getenv(env) }
	}

	return &Client{
		endpoint:     opts.Endpoint,
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		apiKey:       opts.APIKey,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        opts.RequestTimeout,
			RequestsPerSec: opts.RequestsPerSec,
			MaxRetries:     opts.MaxRetries,
		}),
		logger: log.With().Str("component", "openai_client").Logger(),
	}
}

// Predict returns the model's text for req, or models.FallbackText on any failure.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) string {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return models.FallbackText
	}
	return text
}

// Complete sends the prediction prompt and returns the first choice's content
// unmodified. Failures are returned as *Error carrying a models.ErrorKind.
func (c *Client) Complete(ctx context.Context, req models.PredictionRequest) (string, error) {
	userMessage := prompt.UserMessage(req)
	c.logger.Debug().Str("prompt", userMessage).Msg("Sending prompt to completions endpoint")

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", newError(models.ErrorKindMalformedResponse, 0, fmt.Errorf("encoding request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newError(models.ErrorKindUnreachable, 0, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey())

	resp, err := c.httpClient.DoRequest(ctx, httpReq)
	if err != nil {
		status := httpClient.StatusCode(err)
		kind := kindForStatus(status)
		c.logger.Error().Err(err).Int("status", status).Str("kind", string(kind)).Msg("Completions request failed")
		return "", newError(kind, status, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Msg("Reading completions response failed")
		return "", newError(models.ErrorKindUnreachable, resp.StatusCode, fmt.Errorf("reading response body: %w", err))
	}

	var data chatResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(raw)).Msg("Error parsing JSON")
		return "", newError(models.ErrorKindMalformedResponse, resp.StatusCode, fmt.Errorf("parsing JSON: %w", err))
	}

	if len(data.Choices) == 0 || data.Choices[0].Message == nil ||
		data.Choices[0].Message.Content == nil || *data.Choices[0].Message.Content == "" {
		c.logger.Warn().Str("response", string(raw)).Msg("Completions response has no content")
		return "", newError(models.ErrorKindEmptyResponse, resp.StatusCode, errNoContent)
	}

	return *data.Choices[0].Message.Content, nil
}
