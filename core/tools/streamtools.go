package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// StreamAPI is the slice of the broadcast platform the stream tools need.
// The chat layer supplies a concrete implementation.
type StreamAPI interface {
	Status(ctx context.Context) (*StreamStatus, error)
	UpdateTitle(ctx context.Context, title string) error
	CreatePoll(ctx context.Context, title string, choices []string, durationSeconds int) error
	EndPoll(ctx context.Context, status string) error
	CreatePrediction(ctx context.Context, title string, outcomes []string, windowSeconds int) error
}

type StreamStatus struct {
	Live      bool      `json:"live"`
	Game      string    `json:"game"`
	Title     string    `json:"title"`
	Viewers   int       `json:"viewers"`
	Followers int       `json:"followers"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// StreamTools builds the broadcast management tool set. Everything that
// mutates the channel requires broadcaster authorization; status lookup is
// open to everyone.
func StreamTools(api StreamAPI) []Entry {
	statusEntry := NewEntry("get_streamer_info_and_status",
		"Get the current stream status: game, title, viewer and follower counts",
		func(ctx context.Context, _ struct{}) (string, error) {
			status, err := api.Status(ctx)
			if err != nil {
				return "", fmt.Errorf("failed to fetch stream status: %w", err)
			}
			encoded, err := json.Marshal(status)
			if err != nil {
				return "", fmt.Errorf("failed to encode stream status: %w", err)
			}
			return string(encoded), nil
		})

	titleEntry := NewEntry("update_stream_title",
		"Change the stream title",
		func(ctx context.Context, params struct {
			Title string `json:"title" jsonschema:"description=The new stream title"`
		}) (string, error) {
			if err := api.UpdateTitle(ctx, params.Title); err != nil {
				return "", fmt.Errorf("failed to update title: %w", err)
			}
			return "Success. Respond with a very short confirmation", nil
		})
	titleEntry.AuthorizationRequired = true

	pollEntry := NewEntry("create_poll",
		"Create a viewer poll on the channel",
		func(ctx context.Context, params struct {
			Title    string   `json:"title" jsonschema:"description=The poll question"`
			Choices  []string `json:"choices" jsonschema:"description=Between 2 and 5 poll choices"`
			Duration int      `json:"duration" jsonschema:"description=Poll duration in seconds"`
		}) (string, error) {
			if len(params.Choices) < 2 {
				return "", fmt.Errorf("a poll needs at least two choices")
			}
			if params.Duration <= 0 {
				params.Duration = 60
			}
			if err := api.CreatePoll(ctx, params.Title, params.Choices, params.Duration); err != nil {
				return "", fmt.Errorf("failed to create poll: %w", err)
			}
			return "Success. Respond with a very short confirmation", nil
		})
	pollEntry.AuthorizationRequired = true

	managePollEntry := NewEntry("manage_poll",
		"End the currently running poll",
		func(ctx context.Context, params struct {
			Status string `json:"status" jsonschema:"enum=TERMINATED,enum=ARCHIVED,description=TERMINATED shows the result to viewers; ARCHIVED hides it"`
		}) (string, error) {
			if err := api.EndPoll(ctx, params.Status); err != nil {
				return "", fmt.Errorf("failed to end poll: %w", err)
			}
			return "Success. Respond with a very short confirmation", nil
		})
	managePollEntry.AuthorizationRequired = true

	predictionEntry := NewEntry("create_prediction",
		"Create a channel points prediction",
		func(ctx context.Context, params struct {
			Title    string   `json:"title" jsonschema:"description=The prediction question"`
			Outcomes []string `json:"outcomes" jsonschema:"description=Between 2 and 10 possible outcomes"`
			Window   int      `json:"prediction_window" jsonschema:"description=Seconds viewers have to participate"`
		}) (string, error) {
			if len(params.Outcomes) < 2 {
				return "", fmt.Errorf("a prediction needs at least two outcomes")
			}
			if params.Window <= 0 {
				params.Window = 120
			}
			if err := api.CreatePrediction(ctx, params.Title, params.Outcomes, params.Window); err != nil {
				return "", fmt.Errorf("failed to create prediction: %w", err)
			}
			return "Success. Respond with a very short confirmation", nil
		})
	predictionEntry.AuthorizationRequired = true

	return []Entry{statusEntry, titleEntry, pollEntry, managePollEntry, predictionEntry}
}
