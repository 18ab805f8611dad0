package advisor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

var errEmptyResponse = errors.New("provider returned an empty response")

func motivationPrompt(statsText string) string {
	var b strings.Builder
	b.WriteString("Here is a user's mood statistics report:\n\n")
	b.WriteString(statsText)
	b.WriteString("\nWrite one short motivational sentence for them.")
	return b.String()
}

// advicePrompt renders entries as "mood (note)" lines, newest first.
func advicePrompt(entries []*domain.MoodEntry) string {
	var b strings.Builder
	b.WriteString("You are the user's best friend and a thoughtful psychologist. ")
	b.WriteString("Here are their latest mood records, newest first:\n\n")
	for _, entry := range entries {
		if entry.HasNote() {
			fmt.Fprintf(&b, "- %s (thoughts: %s)\n", entry.Mood.Label(), entry.Note)
		} else {
			fmt.Fprintf(&b, "- %s\n", entry.Mood.Label())
		}
	}
	b.WriteString("\nReflect on this and give a short piece of advice, four sentences at most.")
	return b.String()
}
