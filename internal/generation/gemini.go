package generation

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the slice of genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig selects models and policy for the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	VisionModel string
	Sampling    Sampling
	// SearchGrounding attaches the Google Search tool to text and URL requests.
	SearchGrounding bool
}

// Gemini is the Google Gemini backend.
type Gemini struct {
	models contentGenerator
	cfg    GeminiConfig
}

// NewGemini creates a Gemini API client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Gemini{models: client.Models, cfg: cfg}, nil
}

// safetySettings is applied to every request.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	model := g.cfg.TextModel
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Mode == ModeImage {
		model = g.cfg.VisionModel
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return "", fmt.Errorf("gemini: decode image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, "image/jpeg"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, model, contents, g.config(req.Mode))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: nil response")
	}
	return resp.Text(), nil
}

func (g *Gemini) config(mode Mode) *genai.GenerateContentConfig {
	s := g.cfg.Sampling
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.Temperature),
		TopP:            genai.Ptr(s.TopP),
		TopK:            genai.Ptr(s.TopK),
		MaxOutputTokens: s.MaxOutputTokens,
		SafetySettings:  safetySettings,
	}
	if g.cfg.SearchGrounding && mode != ModeImage {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}
