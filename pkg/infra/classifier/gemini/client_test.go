package gemini

import (
	"testing"

	"github.com/fuega-ai/fuega/pkg/infra/classifier"
	"github.com/stretchr/testify/assert"
)

func TestModelOrDefault(t *testing.T) {
	assert.Equal(t, defaultModel, modelOrDefault(""))
	assert.Equal(t, "gemini-2.0-flash", modelOrDefault("gemini-2.0-flash"))

	// Defaulting never writes back into the caller's config.
	config := &classifier.Config{}
	_ = modelOrDefault(config.Model)
	assert.Empty(t, config.Model)
}
