package openai

import (
	"context"
	"fmt"

	gopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/codes"
)

// Check reports whether the text trips the moderation endpoint.
func (c *Client) Check(ctx context.Context, text string) (bool, error) {
	ctx, span := tracer.Start(ctx, "moderation check")
	defer span.End()

	result, err := c.api.Moderations(ctx, gopenai.ModerationRequest{Input: text})
	if err != nil {
		err = fmt.Errorf("failed to moderate text: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if len(result.Results) == 0 {
		return false, nil
	}
	return result.Results[0].Flagged, nil
}
