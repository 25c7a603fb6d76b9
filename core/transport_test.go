package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etiennelac/voxhost/core/llms"
)

// signalClient reports every completion request over a channel so tests can
// observe turns that run on their own goroutine.
type signalClient struct {
	requests chan llms.Request
}

func (c *signalClient) Complete(_ context.Context, req llms.Request) (*llms.Response, error) {
	c.requests <- req
	return &llms.Response{Content: "ok"}, nil
}

func newTranscriptionAssistant(t *testing.T) (*Assistant, *signalClient) {
	t.Helper()
	client := &signalClient{requests: make(chan llms.Request, 1)}
	assistant, err := New(WithDialogueManager(NewDialogueManager(client, lengthCounter{})))
	if err != nil {
		t.Fatalf("expected assistant to build, got %v", err)
	}
	t.Cleanup(assistant.Close)
	return assistant, client
}

func TestTranscriptionHandlerRejectsNonPost(t *testing.T) {
	assistant, client := newTranscriptionAssistant(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/transcription", nil)
	assistant.TranscriptionHandler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", recorder.Code)
	}
	select {
	case <-client.requests:
		t.Fatalf("expected no dialogue turn for a rejected method")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTranscriptionHandlerRejectsBadPayload(t *testing.T) {
	assistant, client := newTranscriptionAssistant(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/transcription", strings.NewReader("not json"))
	assistant.TranscriptionHandler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
	select {
	case <-client.requests:
		t.Fatalf("expected no dialogue turn for a bad payload")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTranscriptionHandlerIgnoresBlankTranscription(t *testing.T) {
	assistant, client := newTranscriptionAssistant(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/transcription",
		strings.NewReader(`{"transcription": "   "}`))
	assistant.TranscriptionHandler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected blank text to still be acknowledged, got %d", recorder.Code)
	}
	select {
	case <-client.requests:
		t.Fatalf("expected no dialogue turn for blank text")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTranscriptionHandlerAcksAndRunsTurnDetached(t *testing.T) {
	assistant, client := newTranscriptionAssistant(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/transcription",
		strings.NewReader(`{"transcription": "how is chat doing"}`))
	assistant.TranscriptionHandler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	select {
	case req := <-client.requests:
		last := req.Messages[len(req.Messages)-1]
		if last.Role != llms.RoleUser || !strings.Contains(last.Content, "how is chat doing") {
			t.Fatalf("expected the transcription in the user message, got %+v", last)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the dialogue turn to run after the ack")
	}
}
