package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	BotName     string
	ChannelName string
	// Language restricts assistant answers to a single language when set.
	Language string

	OpenAIKey       string
	Model           string
	Temperature     float64
	MaxTotalTokens  int
	MaxAnswerTokens int
	CharacterBudget int

	ElevenLabsKey   string
	ElevenLabsVoice string
	DeepgramKey     string
	PorcupineKey    string
	KeywordPaths    []string
	PiperModel      string

	SpeechBackend        string
	TranscriptionBackend string
	SilenceDetection     string

	MaxSilenceFrames int
	MicrophoneDevice int

	HistoryPath     string
	CalibrationPath string
	WakeSoundDir    string
	WaitSoundDir    string

	Port int
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BotName:     os.Getenv("BOT_NAME"),
		ChannelName: os.Getenv("CHANNEL_NAME"),
		Language:    os.Getenv("ANSWER_LANGUAGE"),

		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		Model:           envOr("OPENAI_MODEL", "gpt-4o"),
		Temperature:     envFloat("OPENAI_TEMPERATURE", 0.8),
		MaxTotalTokens:  envInt("OPENAI_MAX_TOKENS_TOTAL", 4096),
		MaxAnswerTokens: envInt("OPENAI_MAX_TOKENS_ANSWER", 512),
		CharacterBudget: envInt("ANSWER_CHARACTER_BUDGET", 380),

		ElevenLabsKey:   os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoice: os.Getenv("ELEVENLABS_VOICE_ID"),
		DeepgramKey:     os.Getenv("DEEPGRAM_API_KEY"),
		PorcupineKey:    os.Getenv("PORCUPINE_ACCESS_KEY"),
		KeywordPaths:    envList("PORCUPINE_KEYWORD_PATHS"),
		PiperModel:      os.Getenv("PIPER_MODEL_PATH"),

		SpeechBackend:        envOr("SPEECH_BACKEND", "elevenlabs"),
		TranscriptionBackend: envOr("TRANSCRIPTION_BACKEND", "whisper"),
		SilenceDetection:     envOr("SILENCE_DETECTION", "amplitude"),

		MaxSilenceFrames: envInt("MAX_SILENCE_FRAMES", 96),
		MicrophoneDevice: envInt("MICROPHONE_DEVICE", -1),

		HistoryPath:     envOr("HISTORY_PATH", "history.json"),
		CalibrationPath: envOr("CALIBRATION_PATH", "config.json"),
		WakeSoundDir:    os.Getenv("WAKE_SOUND_DIR"),
		WaitSoundDir:    os.Getenv("WAIT_SOUND_DIR"),

		Port: envInt("PORT", 3000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BotName == "" {
		return fmt.Errorf("BOT_NAME must be set")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set")
	}

	switch c.SpeechBackend {
	case "elevenlabs":
		if c.ElevenLabsKey == "" || c.ElevenLabsVoice == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY and ELEVENLABS_VOICE_ID must be set for the elevenlabs backend")
		}
	case "deepgram":
		if c.DeepgramKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY must be set for the deepgram speech backend")
		}
	case "piper":
		if c.PiperModel == "" {
			return fmt.Errorf("PIPER_MODEL_PATH must be set for the piper backend")
		}
	case "googletts":
	default:
		return fmt.Errorf("unknown speech backend: %s", c.SpeechBackend)
	}

	switch c.TranscriptionBackend {
	case "whisper":
	case "deepgram":
		if c.DeepgramKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY must be set for the deepgram transcription backend")
		}
	default:
		return fmt.Errorf("unknown transcription backend: %s", c.TranscriptionBackend)
	}

	switch c.SilenceDetection {
	case "amplitude", "webrtc", "energy":
	default:
		return fmt.Errorf("unknown silence detection: %s", c.SilenceDetection)
	}

	if c.MaxSilenceFrames <= 0 {
		return fmt.Errorf("MAX_SILENCE_FRAMES must be positive")
	}
	if c.MaxAnswerTokens >= c.MaxTotalTokens {
		return fmt.Errorf("OPENAI_MAX_TOKENS_ANSWER must be smaller than OPENAI_MAX_TOKENS_TOTAL")
	}

	return nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
