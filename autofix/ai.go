package autofix

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/phpguard/phpguard/internal/cache"
	"github.com/phpguard/phpguard/issue"
)

const (
	// SystemPrompt is sent ahead of every finding as the model instructions.
	SystemPrompt = `You review findings of a PHP security scanner.
For each finding, explain the vulnerability in one or two sentences and show the corrected PHP code.
Use prepared statements with bound parameters for SQL, htmlspecialchars with ENT_QUOTES for HTML output,
escapeshellarg for shell arguments and a fixed allow-list for included file paths.
Answer in markdown format and keep the response limited to 200 words.`

	// AIPrompt describes one finding: type, rule id, description and snippet.
	AIPrompt = `Fix this %s issue reported by rule %s: %q.
The vulnerable code is:
%s`

	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.2

	timeout     = 30 * time.Second
	cacheSize   = 256
	maxInFlight = 4
)

var errEmptyAutofix = errors.New("empty autofix")

// GenAIClient defines the interface for the GenAI client
type GenAIClient interface {
	GenerateSolution(ctx context.Context, prompt string) (string, error)
}

// Options selects and configures the AI backend.
type Options struct {
	// Provider is a model name prefixed by gemini, claude or gpt
	Provider string
	APIKey   string `json:"-"`

	// BaseURL and SkipSSL apply to OpenAI compatible APIs only
	BaseURL string
	SkipSSL bool

	// MaxTokens and Temperature default to DefaultMaxTokens and DefaultTemperature
	MaxTokens   int
	Temperature float64
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// NewClient creates the client of the backend named by the provider prefix.
func NewClient(opts Options) (GenAIClient, error) {
	opts = opts.withDefaults()
	switch {
	case strings.HasPrefix(opts.Provider, "gemini"):
		return NewGeminiClient(opts)
	case strings.HasPrefix(opts.Provider, "claude"):
		return NewClaudeClient(opts)
	case strings.HasPrefix(opts.Provider, "gpt"):
		return NewOpenAIClient(opts)
	}
	return nil, fmt.Errorf("unsupported AI backend: %s", opts.Provider)
}

// answer returns the first non-blank text of a provider response.
func answer(provider string, texts ...string) (string, error) {
	for _, text := range texts {
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}
	if provider == "" {
		return "", errEmptyAutofix
	}
	return "", fmt.Errorf("%w from %s", errEmptyAutofix, provider)
}

// GenerateSolution fills the Autofix field of the given issues using the
// configured AI backend. Issues whose suggestion could not be generated are
// left untouched and reported in the returned error.
func GenerateSolution(ctx context.Context, opts Options, issues []*issue.Issue, logger *log.Logger) error {
	client, err := NewClient(opts)
	if err != nil {
		return err
	}
	return generateSolution(ctx, client, issues, logger)
}

// generator deduplicates requests for identical findings.
type generator struct {
	client GenAIClient
	cache  *cache.LRU[string, string]
	group  singleflight.Group
}

func cacheKey(i *issue.Issue) string {
	return i.RuleID + "\x00" + i.Code
}

func (g *generator) solve(ctx context.Context, i *issue.Issue) (string, error) {
	key := cacheKey(i)
	if fix, ok := g.cache.Get(key); ok {
		return fix, nil
	}
	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		if fix, ok := g.cache.Get(key); ok {
			return fix, nil
		}
		prompt := fmt.Sprintf(AIPrompt, i.Type, i.RuleID, i.What, i.Code)
		fix, err := g.client.GenerateSolution(ctx, prompt)
		if err != nil {
			return "", err
		}
		if fix, err = answer("", fix); err != nil {
			return "", err
		}
		g.cache.Add(key, fix)
		return fix, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func generateSolution(ctx context.Context, client GenAIClient, issues []*issue.Issue, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g := &generator{client: client, cache: cache.New[string, string](cacheSize)}
	var (
		mu   sync.Mutex
		errs []error
	)
	var eg errgroup.Group
	eg.SetLimit(maxInFlight)
	for _, i := range issues {
		eg.Go(func() error {
			fix, err := g.solve(ctx, i)
			if err != nil {
				if logger != nil {
					logger.Printf("Autofix failed for %s (%s): %v", i.FileLocation(), i.RuleID, err)
				}
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", i.FileLocation(), err))
				mu.Unlock()
				return nil
			}
			i.Autofix = fix
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
