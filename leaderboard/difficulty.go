// leaderboard/difficulty.go
package leaderboard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tier is the presentation bucket a difficulty label maps to.
type Tier string

const (
	TierEasy    Tier = "easy"
	TierMedium  Tier = "medium"
	TierHard    Tier = "hard"
	TierDefault Tier = "default"
)

// TierFor maps a difficulty label to its tier. Matching is case-insensitive
// and any label outside EASY/MEDIUM/HARD lands in TierDefault.
func TierFor(label string) Tier {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(label))) {
	case DifficultyEasy:
		return TierEasy
	case DifficultyMedium:
		return TierMedium
	case DifficultyHard:
		return TierHard
	default:
		return TierDefault
	}
}

// DisplayLabel renders "VERYHARD" as "Veryhard". Empty labels stay empty.
func DisplayLabel(label string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(label)))
}

// QuestionLabel returns the column header for the i-th contest question: QA, QB, ...
func QuestionLabel(i int) string {
	if i < 0 {
		return "Q?"
	}
	var b []byte
	for n := i; ; n = n/26 - 1 {
		b = append([]byte{byte('A' + n%26)}, b...)
		if n < 26 {
			break
		}
	}
	return "Q" + string(b)
}
