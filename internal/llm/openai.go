package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flixviz/internal/logger"
	"flixviz/internal/state"

	"github.com/sashabaranov/go-openai"
)

// ErrNoChartData is returned when there is nothing to comment on
var ErrNoChartData = errors.New("no chart data to comment on")

const systemPrompt = "You are a media analyst writing for a streaming catalogue dashboard. " +
	"Given aggregated statistics about Netflix titles, write a short commentary in markdown. " +
	"Use at most five bullet points, cite the numbers you rely on and do not invent data."

// OpenAIClient handles OpenAI API interactions
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// Option configures an OpenAIClient
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at a different API endpoint
func WithBaseURL(url string) Option {
	return func(cfg *openai.ClientConfig) {
		cfg.BaseURL = url
	}
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, model string, opts ...Option) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: 60 * time.Second,
		log:     logger.Component("llm"),
	}
}

// GetSystemPrompt returns the system prompt used for commentary
func (c *OpenAIClient) GetSystemPrompt() string {
	return systemPrompt
}

// Commentary asks the model for a markdown commentary on the charts
func (c *OpenAIClient) Commentary(ctx context.Context, views []state.View) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}
	if !hasData(views) {
		return "", ErrNoChartData
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: c.BuildPrompt(views)},
		},
		MaxTokens:   800,
		Temperature: 0.3,
	})
	if err != nil {
		c.log.Error("OpenAI API error", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	commentary := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Info("Generated commentary", map[string]interface{}{"characters": len(commentary), "model": c.model})
	return commentary, nil
}

// BuildPrompt describes every non-empty view with its configuration and points.
// The same views always give the same prompt.
func (c *OpenAIClient) BuildPrompt(views []state.View) string {
	var b strings.Builder
	b.WriteString("## Netflix Catalogue Charts\n\n")
	b.WriteString("Summarize what the following chart data says about the catalogue.\n\n")

	for _, v := range views {
		if v.Empty() {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", v.Title)
		if v.Subtitle != "" {
			fmt.Fprintf(&b, "%s\n", v.Subtitle)
		}
		fmt.Fprintf(&b, "Metric: %s", v.Config.MetricMode)
		if v.Config.Genre != "" {
			fmt.Fprintf(&b, ", genre: %s", v.Config.Genre)
		}
		if v.Config.Year != nil {
			fmt.Fprintf(&b, ", year: %d", *v.Config.Year)
		}
		b.WriteString("\n```json\n")
		if data, err := json.MarshalIndent(v.Series, "", "  "); err == nil {
			b.Write(data)
		} else {
			b.WriteString("Error marshaling chart data")
		}
		b.WriteString("\n```\n\n")
	}

	b.WriteString("### Instructions:\n")
	b.WriteString("Point out the dominant content type, notable trends and the leading countries and ratings.")
	return b.String()
}

func hasData(views []state.View) bool {
	for _, v := range views {
		if !v.Empty() {
			return true
		}
	}
	return false
}
