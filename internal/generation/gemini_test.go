package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func newTestGemini(models contentGenerator) *Gemini {
	return &Gemini{models: models, cfg: GeminiConfig{
		TextModel:       "text-model",
		VisionModel:     "vision-model",
		Sampling:        DefaultSampling(),
		SearchGrounding: true,
	}}
}

func TestGeminiTextRequest(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{resp: textResponse("ตอบ")}
	out, err := newTestGemini(fake).Generate(context.Background(), Request{Mode: ModeText, Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ตอบ", out)

	assert.Equal(t, "text-model", fake.model)
	require.Len(t, fake.contents, 1)
	require.Len(t, fake.contents[0].Parts, 1)
	assert.Equal(t, "p", fake.contents[0].Parts[0].Text)

	cfg := fake.config
	require.NotNil(t, cfg)
	assert.InDelta(t, 0.3, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 0.5, *cfg.TopP, 1e-6)
	assert.InDelta(t, 60, *cfg.TopK, 1e-6)
	assert.Equal(t, int32(1500), cfg.MaxOutputTokens)
	assert.Len(t, cfg.SafetySettings, 4)
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)
}

func TestGeminiImageRequest(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{resp: textResponse("ภาพ")}
	img := []byte{0xff, 0xd8, 0xff}
	_, err := newTestGemini(fake).Generate(context.Background(), Request{
		Mode:        ModeImage,
		Prompt:      ImagePrompt,
		ImageBase64: base64.StdEncoding.EncodeToString(img),
	})
	require.NoError(t, err)

	assert.Equal(t, "vision-model", fake.model)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, img, parts[1].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Empty(t, fake.config.Tools)
}

func TestGeminiErrors(t *testing.T) {
	t.Parallel()

	_, err := newTestGemini(&fakeModels{err: errors.New("429")}).
		Generate(context.Background(), Request{Mode: ModeText, Prompt: "p"})
	assert.ErrorContains(t, err, "429")

	_, err = newTestGemini(&fakeModels{}).
		Generate(context.Background(), Request{Mode: ModeImage, ImageBase64: "!!"})
	assert.ErrorContains(t, err, "decode image")
}

func TestNewGeminiRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
