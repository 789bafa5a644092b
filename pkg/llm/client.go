package llm

import (
	"time"

	"github.com/pkg/errors"
)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Options selects and configures a Client.
type Options struct {
	Provider       string
	Host           string
	Model          string
	APIKey         string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	ModelOptions   map[string]any
}

// NewClient creates the Client for opts.Provider.
func NewClient(opts Options) (Client, error) {
	httpClient := NewHTTPClient(opts.ConnectTimeout, opts.RequestTimeout)

	switch opts.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(httpClient, opts.Host, opts.Model, opts.ModelOptions), nil
	case ProviderOpenAI:
		return NewOpenAIClient(httpClient, opts.Host, opts.APIKey, opts.Model, opts.ModelOptions), nil
	default:
		return nil, errors.Errorf("unsupported provider %q", opts.Provider)
	}
}
