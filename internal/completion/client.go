// Package completion wraps the chat-completion provider behind a one-shot
// call: fixed model, low temperature, output cap, wall-clock timeout. No
// retry, no backoff, no streaming.
package completion

import (
	"context"
	"sync"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"

	errx "github.com/insightxpress/server/internal/core/error"
	"github.com/insightxpress/server/internal/model"
	logx "github.com/insightxpress/server/pkg/logger"
)

// Completer sends one envelope and returns the model's narrative text.
type Completer interface {
	Complete(ctx context.Context, env model.PromptEnvelope) (string, error)
}

// Client calls the configured OpenAI-compatible endpoint.
type Client struct {
	cm      einomodel.BaseChatModel
	timeout time.Duration
	model   string
}

// New constructs a client for the active deployment variant. A missing API
// key is a configuration error, not a crash: the caller keeps the pipeline
// disabled and the process up.
func New(ctx context.Context, cfg model.ProviderConfig) (*Client, error) {
	if cfg.APIKey() == "" {
		return nil, errx.New(nil, errx.KindConfiguration, errx.PipelineDisabledMessage)
	}

	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens
	timeout := time.Duration(cfg.Timeout) * time.Second

	cm, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.ResolvedBaseURL(),
		Model:       cfg.ResolvedModel(),
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		Timeout:     timeout,
	})
	if err != nil {
		logx.Error().Err(err).Str("provider", cfg.Name).Msg("failed to create chat model")
		return nil, errx.New(err, errx.KindConfiguration, errx.PipelineDisabledMessage)
	}

	return &Client{cm: cm, timeout: timeout, model: cfg.ResolvedModel()}, nil
}

// Complete sends the envelope as one system message plus one user message
// and maps provider failures into the unified taxonomy.
func (c *Client) Complete(ctx context.Context, env model.PromptEnvelope) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.cm.Generate(ctx, env.Messages())
	if err != nil {
		logx.Error().Err(err).Str("model", c.model).Msg("completion request failed")
		return "", errx.WrapProvider(err)
	}
	if msg == nil || msg.Content == "" {
		return "", errx.New(nil, errx.KindUpstreamError, "O provedor retornou uma resposta vazia.")
	}
	return msg.Content, nil
}

var (
	sharedOnce   sync.Once
	sharedClient *Client
	sharedErr    error
)

// Shared returns the process-wide client, constructing it at most once.
// Repeated calls return the same client (or the same construction error)
// without opening duplicate connections.
func Shared(ctx context.Context, cfg model.ProviderConfig) (*Client, error) {
	sharedOnce.Do(func() {
		sharedClient, sharedErr = New(ctx, cfg)
	})
	return sharedClient, sharedErr
}
