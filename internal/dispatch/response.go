package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MaxRosokha/mood-bot/internal/domain"
)

// Event names carried by interactive controls. The transport maps
// whatever its button payloads look like onto these values.
const (
	EventCheckIn   = "checkin"
	EventStatsMenu = "stats_menu"
	EventAdvice    = "advice"
	EventSkipNote  = "skip_note"
	EventCancel    = "cancel"

	moodEventPrefix   = "mood_"
	periodEventPrefix = "period_"
)

// MoodEvent returns the event name for selecting the given mood.
func MoodEvent(m domain.Mood) string {
	return moodEventPrefix + string(m)
}

// ParseMoodEvent extracts the mood label from a mood event name.
func ParseMoodEvent(event string) (string, bool) {
	return strings.CutPrefix(event, moodEventPrefix)
}

// PeriodEvent returns the event name for selecting a stats window.
func PeriodEvent(days int) string {
	return periodEventPrefix + strconv.Itoa(days)
}

// ParsePeriodEvent extracts the window size from a period event name.
func ParsePeriodEvent(event string) (int, bool) {
	raw, ok := strings.CutPrefix(event, periodEventPrefix)
	if !ok {
		return 0, false
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return days, true
}

// Choice is one label→event mapping the front-end turns into an
// interactive control.
type Choice struct {
	Label string
	Event string
}

// Response is a rendered reply: text plus an optional choice set.
type Response struct {
	Text    string
	Choices []Choice
}

func mainMenu() []Choice {
	return []Choice{
		{Label: "How are you? 📝", Event: EventCheckIn},
		{Label: "Statistics 📊", Event: EventStatsMenu},
		{Label: "AI advice 🧠", Event: EventAdvice},
	}
}

func moodMenu() []Choice {
	choices := make([]Choice, 0, len(domain.Moods))
	for _, m := range domain.Moods {
		choices = append(choices, Choice{Label: m.Label(), Event: MoodEvent(m)})
	}
	return choices
}

func periodMenu() []Choice {
	choices := make([]Choice, 0, len(statsPeriods))
	for _, days := range statsPeriods {
		choices = append(choices, Choice{
			Label: fmt.Sprintf("Last %d days 🗓", days),
			Event: PeriodEvent(days),
		})
	}
	return choices
}

func skipMenu() []Choice {
	return []Choice{{Label: "Skip ➡️", Event: EventSkipNote}}
}

func cancelChoice() Choice {
	return Choice{Label: "Cancel ❌", Event: EventCancel}
}
