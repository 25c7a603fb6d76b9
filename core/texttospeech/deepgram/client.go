package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/etiennelac/voxhost/core/audio"
	"github.com/etiennelac/voxhost/core/texttospeech"
)

// Client synthesizes speech through Deepgram's streaming speak socket. Each
// Synthesize call opens its own connection, sends the full text, flushes and
// streams the linear16 audio back.
type Client struct {
	apiKey   string
	voice    string
	encoding audio.EncodingInfo
}

func NewClient(apiKey, voice string) *Client {
	if voice == "" {
		voice = "aura-asteria-en"
	}
	return &Client{
		apiKey: apiKey,
		voice:  voice,
		encoding: audio.EncodingInfo{
			SampleRate: 24000,
			Format:     audio.EncodingLinear16,
		},
	}
}

func (c *Client) Synthesize(ctx context.Context, text string) (*texttospeech.Audio, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open websocket: %w", err)
	}

	pr, pw := io.Pipe()
	go readSpeech(conn, pw)

	if err := conn.WriteJSON(speakMsg(text)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send text to deepgram through websocket: %w", err)
	}
	if err := conn.WriteJSON(flushMsg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to flush deepgram buffer through websocket: %w", err)
	}

	return &texttospeech.Audio{Reader: pr, EncodingInfo: c.encoding}, nil
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	urlValues := url.Values{}
	urlValues.Set("encoding", c.encoding.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	urlValues.Set("model", c.voice)
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"Token " + c.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// readSpeech forwards binary audio messages to the pipe until the server
// confirms the flush, then closes the socket.
func readSpeech(conn *websocket.Conn, pw *io.PipeWriter) {
	defer conn.Close()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			// TODO: Actually figure out this message instead of comparing to a string
			if err.Error() != "websocket: close 1000 (normal)" {
				pw.CloseWithError(fmt.Errorf("websocket read error: %w", err))
				return
			}
			pw.Close()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if _, err := pw.Write(msg); err != nil {
				return
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}
			if parsedMsg.Type == "Flushed" {
				_ = conn.WriteJSON(closeMsg)
				pw.Close()
				return
			}
		}
	}
}

func (c *Client) Voice() texttospeech.Voice {
	return texttospeech.Voice{ID: c.voice, Name: c.voice}
}

type websocketMessage struct {
	Type string `json:"type"`
}

var (
	speakMsg = func(text string) struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} {
		return struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: "Speak", Text: text}
	}
	flushMsg = websocketMessage{Type: "Flush"}
	closeMsg = websocketMessage{Type: "Close"}
)
