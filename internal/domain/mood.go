// Package domain contains core domain types for the mood bot.
package domain

// Mood is one label from the closed check-in vocabulary.
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodSad      Mood = "sad"
	MoodTerrible Mood = "terrible"
)

// Moods lists the vocabulary in presentation order.
var Moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodSad, MoodTerrible}

var moodLabels = map[Mood]string{
	MoodGreat:    "Great 🤩",
	MoodGood:     "Good 🙂",
	MoodOkay:     "Okay 😐",
	MoodSad:      "Sad 😔",
	MoodTerrible: "Terrible 😫",
}

// Valid reports whether m belongs to the vocabulary.
func (m Mood) Valid() bool {
	_, ok := moodLabels[m]
	return ok
}

// Label returns the human-facing label for m, or the raw value for
// anything outside the vocabulary.
func (m Mood) Label() string {
	if label, ok := moodLabels[m]; ok {
		return label
	}
	return string(m)
}

// ParseMood maps a raw label to a vocabulary member.
func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if !m.Valid() {
		return "", ErrUnknownMood
	}
	return m, nil
}
