package providers

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements the ChatCompleter interface for OpenAI-compatible APIs.
type OpenAI struct {
	client  *openai.Client
	baseURL string
}

// NewOpenAI creates a new OpenAI provider. An empty baseURL selects the
// public OpenAI endpoint; any OpenAI-compatible server (Ollama, LM Studio)
// can be targeted instead.
func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		baseURL: cfg.BaseURL,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// BaseURL returns the endpoint the client talks to.
func (o *OpenAI) BaseURL() string { return o.baseURL }

func (o *OpenAI) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	body := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	// go-openai drops a zero temperature from the payload (omitempty), which
	// would fall back to the server default of 1.
	if req.Temperature == 0 {
		body.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := o.client.CreateChatCompletion(ctx, body)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat completion: %w", classify(err))
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("no choices in response")
	}

	return ChatResponse{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
