package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fuega-ai/fuega/pkg/infra/classifier"
	"google.golang.org/genai"
)

const defaultModel = "gemini-pro"

type client struct {
	genaiClient *genai.Client
}

func NewGeminiClient(apiKey string) (classifier.Client, error) {
	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &client{
		genaiClient: genaiClient,
	}, nil
}

func (c *client) Ask(
	ctx context.Context,
	config *classifier.Config,
	prompt string,
) (*classifier.CompletionResponse, error) {
	// Default into a local; the config belongs to the caller.
	model := modelOrDefault(config.Model)

	var parts []*genai.Part
	if config.SystemPrompt != "" {
		parts = append(parts, &genai.Part{
			Text: config.SystemPrompt,
		})
	}
	if len(config.Instructions) > 0 {
		parts = append(parts, &genai.Part{
			Text: classifier.FormatRules(config.Instructions),
		})
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: parts,
				Role:  "system",
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	return &classifier.CompletionResponse{
		ID:       fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Model:    model,
		Response: responseText,
	}, nil
}

func modelOrDefault(model string) string {
	if model == "" {
		return defaultModel
	}
	return model
}
