package googletts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/etiennelac/voxhost/core/texttospeech"
)

// chunkLimit is the longest text the translate endpoint accepts per request.
const chunkLimit = 200

// Client synthesizes speech through the free Google Translate TTS endpoint.
// Quality is flat but it needs no API key, which makes it the zero-setup
// fallback backend. Output is MP3.
type Client struct {
	httpClient *http.Client
	language   string
}

func NewClient(language string) *Client {
	if language == "" {
		language = "en"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		language: language,
	}
}

func (c *Client) Synthesize(ctx context.Context, text string) (*texttospeech.Audio, error) {
	chunks := splitChunks(text, chunkLimit)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to synthesize")
	}

	pr, pw := io.Pipe()
	go func() {
		for _, chunk := range chunks {
			if err := c.fetch(ctx, chunk, pw); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.Close()
	}()

	return &texttospeech.Audio{Reader: pr, Compressed: true}, nil
}

func (c *Client) fetch(ctx context.Context, chunk string, w io.Writer) error {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", c.language)
	query.Set("q", chunk)
	query.Set("total", "1")
	query.Set("idx", "0")
	query.Set("textlen", strconv.Itoa(len(chunk)))

	endpoint := url.URL{
		Scheme:   "https",
		Host:     "translate.google.com",
		Path:     "/translate_tts",
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build tts request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch tts audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts endpoint returned %s", resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read tts audio: %w", err)
	}
	return nil
}

func (c *Client) Voice() texttospeech.Voice {
	return texttospeech.Voice{
		ID:   "translate-" + c.language,
		Name: "Google Translate",
	}
}

// splitChunks breaks text into pieces no longer than limit, preferring word
// boundaries.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	current := strings.Builder{}
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		for len(word) > limit {
			chunks = append(chunks, word[:limit])
			word = word[limit:]
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
