package openai

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	gopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/etiennelac/voxhost/core/llms"
)

// Client is a chat completion backend on the OpenAI API, using the functions
// surface for tool calls.
type Client struct {
	api *gopenai.Client
}

func NewClient(apiKey string) *Client {
	return &Client{api: gopenai.NewClient(apiKey)}
}

func (c *Client) Complete(ctx context.Context, req llms.Request) (*llms.Response, error) {
	ctx, span := tracer.Start(ctx, "chat completion")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.messages", len(req.Messages)),
	)

	completion, err := c.api.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toChatMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Functions:   toFunctions(req.Tools),
	})
	if err != nil {
		err = fmt.Errorf("failed to create chat completion: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(completion.Choices) == 0 {
		err := fmt.Errorf("chat completion returned no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	choice := completion.Choices[0].Message
	response := llms.Response{Content: choice.Content}
	if choice.FunctionCall != nil {
		toolCall := llms.ToolCall{ID: completion.ID}
		if err := copier.Copy(&toolCall, choice.FunctionCall); err != nil {
			return nil, fmt.Errorf("failed to copy function call: %w", err)
		}
		response.ToolCall = &toolCall
	}
	return &response, nil
}
