package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/etiennelac/voxhost/core/texttospeech"
)

// StatusSnapshot is the live broadcast state injected into the system prompt.
type StatusSnapshot struct {
	Live      bool
	Game      string
	Title     string
	Viewers   int
	Followers int
}

// PromptTemplate renders the system message. It is re-rendered for every
// completion so prompt edits and live-status changes take effect
// mid-conversation.
//
// Base may reference {{botName}} and {{channelName}}.
type PromptTemplate struct {
	BotName     string
	ChannelName string
	Base        string
	// CustomInstructions is free-form operator text appended verbatim.
	CustomInstructions string
	// Language restricts answers to a single language when set.
	Language string
	// CharacterBudget is the spoken-answer length the prompt asks for. It
	// also drives reply shortening in the dialogue manager.
	CharacterBudget int
	Voice           texttospeech.Voice

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (t PromptTemplate) Render(status StatusSnapshot) string {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	base := t.Base
	base = strings.ReplaceAll(base, "{{botName}}", t.BotName)
	base = strings.ReplaceAll(base, "{{channelName}}", t.ChannelName)

	b := strings.Builder{}
	b.WriteString(base)

	if status != (StatusSnapshot{}) {
		live := "offline"
		if status.Live {
			live = "live"
		}
		fmt.Fprintf(&b, "\n\nThe stream is currently %s. Game: %s. Title: %s. %d viewers, %d followers.",
			live, status.Game, status.Title, status.Viewers, status.Followers)
	}

	if t.Voice != (texttospeech.Voice{}) {
		b.WriteString("\nYour synthesized voice")
		if t.Voice.Accent != "" {
			fmt.Fprintf(&b, " has a %s accent", t.Voice.Accent)
		}
		if t.Voice.Age != "" {
			fmt.Fprintf(&b, ", sounds %s", t.Voice.Age)
		}
		if t.Voice.Gender != "" {
			fmt.Fprintf(&b, " and %s", t.Voice.Gender)
		}
		b.WriteString(".")
	}

	if t.CustomInstructions != "" {
		b.WriteString("\n")
		b.WriteString(t.CustomInstructions)
	}

	if t.CharacterBudget > 0 {
		fmt.Fprintf(&b, "\nYour answers are read aloud; keep them under %d characters.", t.CharacterBudget)
	}

	if t.Language != "" {
		fmt.Fprintf(&b, "\nAnswer exclusively in %s, no matter which language is spoken to you.", t.Language)
	}

	fmt.Fprintf(&b, "\nCurrent date and time: %s.", now().Format("Monday, 2 January 2006, 15:04"))

	return b.String()
}
