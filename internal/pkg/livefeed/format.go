package livefeed

import (
	"fmt"
	"strings"
)

// FormatMatch renders a one-line human-readable snapshot of a match.
// Kept deliberately thin — this is a helper, not a second state machine.
func FormatMatch(m *Match) string {
	if m == nil {
		return "unknown match"
	}
	score := m.ScoreRaw
	if score == "" {
		score = "-"
	}
	return fmt.Sprintf("[%s] %s v %s (%s) %s %s", m.SportName, m.Team1, m.Team2, m.Tournament, m.Status, score)
}

// FormatUpdate renders one MatchUpdate to a single line.
func FormatUpdate(u MatchUpdate) string {
	label := matchLabel(u.Match)
	if u.Type == "delete" {
		return fmt.Sprintf("%s: removed", label)
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(u.Changes, ", "))
}

func matchLabel(m *Match) string {
	if m == nil {
		return "unknown match"
	}
	return fmt.Sprintf("%s v %s", m.Team1, m.Team2)
}
