package autofix

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	ModelClaudeOpus4_0   anthropic.Model = "claude-opus-4-0"
	ModelClaudeOpus4_1   anthropic.Model = "claude-opus-4-1"
	ModelClaudeSonnet4_0 anthropic.Model = "claude-sonnet-4-0"
	ModelClaudeSonnet4_5 anthropic.Model = "claude-sonnet-4-5"
	ModelClaudeHaiku4_5  anthropic.Model = "claude-haiku-4-5"
)

var _ GenAIClient = (*claudeWrapper)(nil)

type claudeWrapper struct {
	client anthropic.Client
	model  anthropic.Model
	opts   Options
}

// NewClaudeClient creates a client for the Anthropic messages API.
func NewClaudeClient(opts Options) (GenAIClient, error) {
	opts = opts.withDefaults()

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}

	return &claudeWrapper{
		client: anthropic.NewClient(reqOpts...),
		model:  parseAnthropicModel(opts.Provider),
		opts:   opts,
	}, nil
}

func (c *claudeWrapper) params(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(c.opts.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(c.opts.Temperature),
	}
}

func (c *claudeWrapper) GenerateSolution(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, c.params(prompt))
	if err != nil {
		return "", fmt.Errorf("generating autofix: %w", err)
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	return answer("claude", texts...)
}

func parseAnthropicModel(model string) anthropic.Model {
	switch model {
	case "claude-opus", "claude-opus-4-0":
		return ModelClaudeOpus4_0
	case "claude-opus-4-1":
		return ModelClaudeOpus4_1
	case "claude-sonnet-4-5":
		return ModelClaudeSonnet4_5
	case "claude-haiku-4-5":
		return ModelClaudeHaiku4_5
	}

	return ModelClaudeSonnet4_0
}
