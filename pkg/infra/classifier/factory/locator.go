package factory

import (
	"fmt"

	"github.com/fuega-ai/fuega/pkg/infra/classifier"
	"github.com/fuega-ai/fuega/pkg/infra/classifier/anthropic"
	"github.com/fuega-ai/fuega/pkg/infra/classifier/gemini"
	"github.com/fuega-ai/fuega/pkg/infra/classifier/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

// ProviderLocator resolves a provider name to a classifier client. apiKey is
// consumed only by the gemini constructor, whose SDK binds the key at client
// creation; openai and anthropic clients take credentials per call through
// classifier.Config and ignore the argument here.
type ProviderLocator interface {
	Get(provider string, apiKey string) (classifier.Client, error)
}

type providerLocator struct{}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{}
}

func (f *providerLocator) Get(provider string, apiKey string) (classifier.Client, error) {
	switch provider {
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	case ProviderGemini:
		return gemini.NewGeminiClient(apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
