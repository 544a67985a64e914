package autofix

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// https://ai.google.dev/gemini-api/docs/models
type GenAIModel string

const (
	ModelGeminiPro2_5       GenAIModel = "gemini-2.5-pro"
	ModelGeminiFlash2_5     GenAIModel = "gemini-2.5-flash"
	ModelGeminiFlash2_5Lite GenAIModel = "gemini-2.5-flash-lite"
	ModelGeminiFlash2_0     GenAIModel = "gemini-2.0-flash"
	ModelGeminiFlash2_0Lite GenAIModel = "gemini-2.0-flash-lite"
)

var _ GenAIClient = (*geminiWrapper)(nil)

type geminiWrapper struct {
	client *genai.Client
	model  GenAIModel
	opts   Options
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(opts Options) (GenAIClient, error) {
	opts = opts.withDefaults()
	genaiModel, err := parseGeminiModel(opts.Provider)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &geminiWrapper{
		client: client,
		model:  genaiModel,
		opts:   opts,
	}, nil
}

func (g *geminiWrapper) config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
			Role:  "system",
		},
		MaxOutputTokens: int32(g.opts.MaxTokens),
		Temperature:     genai.Ptr(float32(g.opts.Temperature)),
	}
}

func (g *geminiWrapper) GenerateSolution(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, string(g.model), genai.Text(prompt), g.config())
	if err != nil {
		return "", fmt.Errorf("generating autofix: %w", err)
	}
	if resp == nil {
		return answer("gemini")
	}
	return answer("gemini", resp.Text())
}

func parseGeminiModel(model string) (GenAIModel, error) {
	switch model {
	case "gemini-2.5-pro":
		return ModelGeminiPro2_5, nil
	case "gemini-2.5-flash":
		return ModelGeminiFlash2_5, nil
	case "gemini-2.5-flash-lite":
		return ModelGeminiFlash2_5Lite, nil
	case "gemini-2.0-flash":
		return ModelGeminiFlash2_0, nil
	case "gemini-2.0-flash-lite", "gemini": // Default
		return ModelGeminiFlash2_0Lite, nil
	}

	return "", fmt.Errorf("unsupported gemini model: %s", model)
}
