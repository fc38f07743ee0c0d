package curator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI GENERATOR
// =============================================================================

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

// GenAIGenerator produces replies with Google's Gemini API.
type GenAIGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGenAIGenerator creates a generator bound to one model.
func NewGenAIGenerator(ctx context.Context, apiKey, model string, temperature float64) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

// Model returns the model name.
func (g *GenAIGenerator) Model() string { return g.model }

// Generate sends the system instruction plus the conversation so far.
func (g *GenAIGenerator) Generate(ctx context.Context, system string, turns []Turn) (Reply, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	reply := Reply{Text: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		reply.InputTokens = int(u.PromptTokenCount)
		reply.OutputTokens = int(u.CandidatesTokenCount)
	}
	return reply, nil
}
