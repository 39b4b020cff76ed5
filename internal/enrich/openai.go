package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/verityhealth/verity/internal/domain"
)

const enrichTimeout = 30 * time.Second

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

func (c *OpenAIClient) Enrich(ctx context.Context, details domain.EvidenceDetails) (*domain.Enrichment, error) {
	specialties := strings.Join(details.Specialties, ", ")
	if specialties == "" {
		specialties = "General Medicine"
	}

	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(enrichPrompt, details.Name, specialties, details.Address),
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("enrichment returned no choices")
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)

	// Strip markdown fences if present
	result = strings.TrimPrefix(result, "```json")
	result = strings.TrimPrefix(result, "```")
	result = strings.TrimSuffix(result, "```")
	result = strings.TrimSpace(result)

	var payload struct {
		Bio              string `json:"bio"`
		EducationSummary string `json:"education_summary"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(result)), &payload); err != nil {
		return nil, fmt.Errorf("parse enrichment result: %w (raw: %s)", err, result)
	}

	if payload.Bio == "" {
		payload.Bio = PlaceholderBio
	}
	if payload.EducationSummary == "" {
		payload.EducationSummary = PlaceholderEducation
	}

	return &domain.Enrichment{
		Bio:              payload.Bio,
		EducationSummary: payload.EducationSummary,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// extractJSONObject trims any prose around the first top-level JSON object
// in a model response.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
