package generation

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// OpenAIConfig selects the model and policy for the OpenAI backend.
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Sampling Sampling
}

// OpenAI is the chat-completions backend. Top-k has no equivalent and is
// ignored.
type OpenAI struct {
	client oai.Client
	cfg    OpenAIConfig
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: oai.NewClient(opts...), cfg: cfg}, nil
}

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, o.params(req))
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) params(req Request) oai.ChatCompletionNewParams {
	var msg oai.ChatCompletionMessageParamUnion
	if req.Mode == ModeImage {
		msg = oai.UserMessage([]oai.ChatCompletionContentPartUnionParam{
			oai.TextContentPart(req.Prompt),
			oai.ImageContentPart(oai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:image/jpeg;base64," + req.ImageBase64,
			}),
		})
	} else {
		msg = oai.UserMessage(req.Prompt)
	}

	s := o.cfg.Sampling
	return oai.ChatCompletionNewParams{
		Model:               shared.ChatModel(o.cfg.Model),
		Messages:            []oai.ChatCompletionMessageParamUnion{msg},
		Temperature:         param.NewOpt(float64(s.Temperature)),
		TopP:                param.NewOpt(float64(s.TopP)),
		MaxCompletionTokens: param.NewOpt(int64(s.MaxOutputTokens)),
	}
}
