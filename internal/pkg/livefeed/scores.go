package livefeed

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSetScores parses "3-6,1-0" into [(3,6),(1,0)]. Each side is a
// decimal integer; a parse failure coerces to 0.
func parseSetScores(raw string) []SetScore {
	if raw == "" {
		return nil
	}
	pairs := strings.Split(raw, ",")
	out := make([]SetScore, 0, len(pairs))
	for _, pair := range pairs {
		halves := strings.SplitN(pair, "-", 2)
		var p1, p2 int
		if len(halves) > 0 {
			p1, _ = strconv.Atoi(strings.TrimSpace(halves[0]))
		}
		if len(halves) > 1 {
			p2, _ = strconv.Atoi(strings.TrimSpace(halves[1]))
		}
		out = append(out, SetScore{P1: p1, P2: p2})
	}
	return out
}

// serializeSets renders sets back to wire form, used to detect whether an
// SS update actually changed anything.
func serializeSets(sets []SetScore) string {
	if len(sets) == 0 {
		return ""
	}
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%d-%d", s.P1, s.P2)
	}
	return strings.Join(parts, ",")
}

// parsePointScore parses "40-15" into ("40","15"). Missing halves default
// to "0"; values are free strings, never coerced to integers.
func parsePointScore(raw string) GameScore {
	halves := strings.SplitN(raw, "-", 2)
	p1, p2 := "0", "0"
	if len(halves) > 0 && halves[0] != "" {
		p1 = halves[0]
	}
	if len(halves) > 1 && halves[1] != "" {
		p2 = halves[1]
	}
	return GameScore{P1: p1, P2: p2}
}

// parseServing parses "1,0" into 1 when the first digit is "1", otherwise
// 2. An empty string defaults to 1.
func parseServing(raw string) int {
	if raw == "" {
		return 1
	}
	first := raw
	if idx := strings.IndexByte(raw, ','); idx >= 0 {
		first = raw[:idx]
	}
	if first == "1" {
		return 1
	}
	return 2
}

// fractionalToDecimal converts "n/d" fractional odds to decimal form:
// n/d + 1 when d != 0; 0 for an absent "/", non-numeric parts, or d == 0.
func fractionalToDecimal(raw string) float64 {
	idx := strings.IndexByte(raw, '/')
	if idx < 0 {
		return 0
	}
	n, errN := strconv.ParseFloat(raw[:idx], 64)
	d, errD := strconv.ParseFloat(raw[idx+1:], 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n/d + 1
}

// parseTeams splits a match name into (left, right) using the sport's
// configured separators in order, falling back to the generic
// " v "/" vs "/" @ " list, and finally to (name, "") if nothing matches.
func parseTeams(name, sportID string, reg *Registry) (string, string) {
	if reg == nil {
		reg = defaultRegistry
	}
	if cfg, ok := reg.Lookup(sportID); ok {
		if left, right, ok := splitOnFirstSeparator(name, cfg.Separators); ok {
			return left, right
		}
	}
	if left, right, ok := splitOnFirstSeparator(name, []string{" v ", " vs ", " @ "}); ok {
		return left, right
	}
	return name, ""
}

func splitOnFirstSeparator(name string, separators []string) (string, string, bool) {
	for _, sep := range separators {
		if idx := strings.Index(name, sep); idx >= 0 {
			left := strings.TrimSpace(name[:idx])
			right := strings.TrimSpace(name[idx+len(sep):])
			return left, right, true
		}
	}
	return "", "", false
}
