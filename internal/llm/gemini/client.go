// Package gemini asks a hosted Gemini model to categorize transactions.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"homebase-go/internal/config"
	"homebase-go/internal/domain/categorize"
	"homebase-go/internal/domain/ledger"
)

var ErrEmptyAnswer = errors.New("gemini: empty answer")

type Client struct {
	model  string
	models *genai.Models
}

// NewClient builds a Gemini API client. An empty BaseURL keeps the SDK
// endpoint.
func NewClient(ctx context.Context, cfg config.CategorizeConfig) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Timeout: &timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	return &Client{
		model:  cfg.Model,
		models: client.Models,
	}, nil
}

// Suggest implements categorize.Suggester.
func (c *Client) Suggest(ctx context.Context, description string, categories []ledger.Category) (categorize.RawSuggestion, error) {
	prompt, genConfig := buildRequest(description, categories)

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), genConfig)
	if err != nil {
		return categorize.RawSuggestion{}, fmt.Errorf("gemini: generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return categorize.RawSuggestion{}, ErrEmptyAnswer
	}

	var answer categorize.RawSuggestion
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return categorize.RawSuggestion{}, fmt.Errorf("gemini: decode answer: %w", err)
	}
	return answer, nil
}

func buildRequest(description string, categories []ledger.Category) (string, *genai.GenerateContentConfig) {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}

	prompt := "Given the following transaction description, predict the most likely expense category.\n\n" +
		"Transaction Description: " + description + "\n\n" +
		"Categories: " + strings.Join(names, ", ") + ".\n\n" +
		"Return the category and your confidence level in the prediction as a number between 0 and 1."

	return prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category":   {Type: genai.TypeString, Enum: names},
				"confidence": {Type: genai.TypeNumber},
			},
			Required: []string{"category", "confidence"},
		},
	}
}
