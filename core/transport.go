package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TranscriptionHandler accepts externally segmented transcriptions over
// HTTP: POST with body {"transcription": "..."}. This is the inbound
// contract a separate recorder process uses instead of the built-in
// endpointer.
//
// The request is acknowledged immediately; the dialogue turn runs in the
// background so a slow completion cannot time out the recorder.
func (a *Assistant) TranscriptionHandler() http.Handler {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var payload struct {
			Transcription string `json:"transcription"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(payload.Transcription) != "" {
			go a.Say(context.WithoutCancel(r.Context()), a.speaker, payload.Transcription)
		}
		w.WriteHeader(http.StatusOK)
	})

	return otelhttp.NewHandler(handler, "transcription")
}
