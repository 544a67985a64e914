package autofix

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultOpenAIModel is used when the provider is the bare "gpt" prefix.
const DefaultOpenAIModel = openai.ChatModelGPT4oMini

var _ GenAIClient = (*openaiWrapper)(nil)

type openaiWrapper struct {
	client openai.Client
	model  openai.ChatModel
	opts   Options
}

// NewOpenAIClient creates a client for OpenAI or any API speaking its chat
// completions protocol at opts.BaseURL.
func NewOpenAIClient(opts Options) (GenAIClient, error) {
	opts = opts.withDefaults()

	var reqOpts []option.RequestOption
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.SkipSSL {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Transport: transport}))
	}

	return &openaiWrapper{
		client: openai.NewClient(reqOpts...),
		model:  openaiModel(opts.Provider),
		opts:   opts,
	}, nil
}

func openaiModel(provider string) openai.ChatModel {
	if provider == "" || provider == "gpt" {
		return DefaultOpenAIModel
	}
	return openai.ChatModel(provider)
}

func (o *openaiWrapper) params(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(o.opts.MaxTokens)),
		Temperature:         openai.Float(o.opts.Temperature),
	}
}

func (o *openaiWrapper) GenerateSolution(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.params(prompt))
	if err != nil {
		return "", fmt.Errorf("generating autofix: %w", err)
	}

	var texts []string
	for _, choice := range resp.Choices {
		texts = append(texts, choice.Message.Content)
	}
	return answer(o.host(), texts...)
}

// host names the backend in errors, since compatible APIs differ from OpenAI.
func (o *openaiWrapper) host() string {
	if o.opts.BaseURL == "" {
		return "openai"
	}
	return strings.TrimSuffix(o.opts.BaseURL, "/")
}
