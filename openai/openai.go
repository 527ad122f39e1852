package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mager/melodiary/config"
	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const temperature = 0.7

var errEmptyCompletion = errors.New("openai: empty completion")

type OpenAIClient struct {
	Client *oai.Client
	Model  string

	log *zap.SugaredLogger
}

// NewOpenAIClient builds a client. Retries are disabled; a failed call is
// reported to the caller immediately.
func NewOpenAIClient(log *zap.SugaredLogger, apiKey, model, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := oai.NewClient(opts...)

	return &OpenAIClient{Client: &client, Model: model, log: log}
}

func ProvideOpenAI(cfg config.Config, log *zap.SugaredLogger) *OpenAIClient {
	return NewOpenAIClient(log, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
}

// Complete sends a single non-streaming chat completion and returns the
// first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: c.Model,
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(system),
			oai.UserMessage(prompt),
		},
		Temperature: oai.Float(temperature),
	}

	resp, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errEmptyCompletion
	}

	c.log.Debugw("openai completion", "model", c.Model, "tokens", resp.Usage.TotalTokens)
	return content, nil
}

var Options = ProvideOpenAI
