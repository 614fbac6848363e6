package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Client wraps the Gemini API for optional title polish. A nil Client is
// valid and degrades to a no-op, so the pipeline works without an API key.
type Client struct {
	client *genai.Client
	model  string
}

type polishResult struct {
	CleanTitle string `json:"clean_title"`
}

func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil // Return nil client if no key provided
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: modelID}, nil
}

// PolishTitle asks the model for a tighter product title. Any failure
// returns "" with the error; callers keep the original title in that case.
func (c *Client) PolishTitle(ctx context.Context, title string) (string, error) {
	if c == nil || c.client == nil {
		return "", nil // Graceful degradation
	}

	prompt := fmt.Sprintf(`
Rewrite this product title for a deal channel:
Title: %q

Task: produce a clean, concise title (4-12 words). Keep brand, product type
and key attributes. Remove marketing fluff, repeated words and site names.

Output JSON adhering to the schema.
`, title)

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1), // Low temperature for deterministic output
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"clean_title": {
					Type:        genai.TypeString,
					Description: "A concise 4-12 word product title without fluff.",
				},
			},
			Required: []string{"clean_title"},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	// Clean up potential markdown formatting just in case
	jsonStr := strings.TrimSpace(resp.Text())
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")

	var result polishResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return strings.TrimSpace(result.CleanTitle), nil
}
