package llm

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.0-flash-exp"

// Gemini generates text through the Google Generative AI API. One client is
// held per configured API key and requests round-robin across them.
type Gemini struct {
	clients []*genai.Client
	next    uint32
	model   string
}

func NewGemini(ctx context.Context, keys *KeyRing) (*Gemini, error) {
	if keys.Len() == 0 {
		return nil, fmt.Errorf("gemini API key not found")
	}
	g := &Gemini{model: geminiModel}
	for _, key := range keys.keys {
		client, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("initializing Gemini client: %w", err)
		}
		g.clients = append(g.clients, client)
	}
	return g, nil
}

func (g *Gemini) Name() string {
	return ProviderGemini
}

// client returns the next client in rotation.
func (g *Gemini) client() *genai.Client {
	n := atomic.AddUint32(&g.next, 1)
	return g.clients[(n-1)%uint32(len(g.clients))]
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	model := g.client().GenerativeModel(g.model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no response candidates")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini: unexpected response type %T", resp.Candidates[0].Content.Parts[0])
	}
	return strings.TrimSpace(string(text)), nil
}

func (g *Gemini) Close() error {
	var firstErr error
	for _, client := range g.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
