package livefeed

import (
	"fmt"
	"strings"
)

// applyIncremental dispatches a U/D/I sub-message to the event- or
// selection-scoped handler, depending on what the header's item ID names.
func (e *Engine) applyIncremental(header string, parts []string, action string) []MatchUpdate {
	itemIDHeader := header
	if idx := strings.LastIndex(header, "/"); idx >= 0 {
		itemIDHeader = header[idx+1:]
	}

	id := ParseItemID(itemIDHeader)

	var fields map[string]string
	if len(parts) > 0 {
		fields = ParseFields(parts[0])
	} else {
		fields = map[string]string{}
	}

	switch id.Kind {
	case ItemEvent:
		return e.applyEventIncremental(id.EventID, fields, action)
	case ItemSelection:
		return e.applySelectionIncremental(id.FixtureID, id.SelectionID, fields)
	default:
		// market or unknown: dropped
		return nil
	}
}

func (e *Engine) applyEventIncremental(eventID string, fields map[string]string, action string) []MatchUpdate {
	m, ok := e.matches[eventID]
	if !ok {
		return nil
	}
	cfg, ok := e.registry.Lookup(m.SportID)
	if !ok {
		return nil
	}

	var changes []string

	if ss, present := fields["SS"]; present {
		old := m.ScoreRaw
		m.ScoreRaw = ss
		if cfg.SetScoring {
			oldSerialized := serializeSets(m.Sets)
			newSets := parseSetScores(ss)
			newSerialized := serializeSets(newSets)
			m.Sets = newSets
			if newSerialized != oldSerialized {
				changes = append(changes, "sets: "+newSerialized)
			}
		} else if ss != old {
			changes = append(changes, "score: "+ss)
		}
	}

	if cfg.HasPointScore {
		if xp, present := fields["XP"]; present {
			newGame := parsePointScore(xp)
			if newGame != m.CurrentGame {
				m.CurrentGame = newGame
				changes = append(changes, fmt.Sprintf("game: %s-%s", newGame.P1, newGame.P2))
			}
		}
	}

	if cfg.HasServing {
		if pi, present := fields["PI"]; present {
			newServing := parseServing(pi)
			if newServing != m.Serving {
				m.Serving = newServing
				changes = append(changes, fmt.Sprintf("serving: P%d", newServing))
			}
		}
	}

	if tu, present := fields["TU"]; present {
		m.LastUpdated = tu
	}

	if es, present := fields["ES"]; present {
		m.StatusRaw = es
		if es == "" {
			m.Status = StatusPreMatch
		} else {
			m.Status = StatusInPlay
		}
	}

	if action == "delete" {
		e.removeMatch(eventID, m)
		return []MatchUpdate{{Type: "delete", EventID: eventID, Match: m, Changes: []string{"deleted"}}}
	}

	if len(changes) > 0 {
		return []MatchUpdate{{Type: "score", EventID: eventID, Match: m, Changes: changes}}
	}
	return nil
}

func (e *Engine) removeMatch(eventID string, m *Match) {
	delete(e.matches, eventID)
	if m.FixtureID != "" && e.fixtureToEvent[m.FixtureID] == eventID {
		delete(e.fixtureToEvent, m.FixtureID)
	}
	if m.ItemID != "" && e.itemToEvent[m.ItemID] == eventID {
		delete(e.itemToEvent, m.ItemID)
	}
	for _, market := range m.Markets.All() {
		for _, sel := range market.Selections {
			delete(e.selectionInfo, sel.SelectionID)
		}
	}
}

func (e *Engine) applySelectionIncremental(fixtureID, selectionID string, fields map[string]string) []MatchUpdate {
	eventID, ok := e.fixtureToEvent[fixtureID]
	if !ok {
		return nil
	}
	m, ok := e.matches[eventID]
	if !ok {
		return nil
	}

	var updates []MatchUpdate
	for _, market := range m.Markets.All() {
		for _, sel := range market.Selections {
			if sel.SelectionID != selectionID {
				continue
			}
			var changes []string
			if od, present := fields["OD"]; present && od != sel.Fractional {
				label := selectionLabel(m, market, sel)
				oldFractional := sel.Fractional
				sel.Fractional = od
				sel.Decimal = fractionalToDecimal(od)
				changes = append(changes, fmt.Sprintf("%s: %s → %s", label, oldFractional, od))
			}
			if su, present := fields["SU"]; present {
				sel.Suspended = su == "1"
			}
			if len(changes) > 0 {
				updates = append(updates, MatchUpdate{Type: "odds", EventID: eventID, Match: m, Changes: changes})
			}
		}
	}
	return updates
}

// selectionLabel names a selection for a human-readable change string:
// team1 for position 0, team2 for position 2, "Draw" for position 1 when
// the market has 3+ selections (otherwise team2).
func selectionLabel(m *Match, market *Market, sel *Selection) string {
	switch sel.Position {
	case 0:
		return m.Team1
	case 1:
		if len(market.Selections) >= 3 {
			return "Draw"
		}
		return m.Team2
	default:
		return m.Team2
	}
}
