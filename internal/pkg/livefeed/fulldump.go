package livefeed

import (
	"regexp"
	"strconv"
)

// reEVEventID extracts the eventId digits preceding the "C" token from an
// EV record's ID field. Unlike the item-ID parser's
// classification regexes this one is unanchored at the end: the ID field
// still carries its own trailing "_32_0" wire-version suffix.
var reEVEventID = regexp.MustCompile(`^(?:OV|6V)?(\d+)C`)

// dumpContext is the parse state threaded through one full-dump
// sub-message, reset at the start of every F sub-message.
type dumpContext struct {
	sportID          string
	inSupportedSport bool
	tournament       string
	tournamentCode   string
	category         string
	lastEventID      string
}

// applyFullDump walks a full-dump sub-message's records in wire order,
// mutating the match table directly. Full dumps never emit MatchUpdates.
func (e *Engine) applyFullDump(parts []string, global bool) {
	if global {
		e.resetAll()
	}
	ctx := &dumpContext{}
	for _, body := range parts {
		fields := ParseFields(body)
		switch fields[TypeKey] {
		case "CL":
			ctx.sportID = fields["CL"]
			ctx.inSupportedSport = e.registry.Has(ctx.sportID)
		case "CT":
			e.applyCT(ctx, fields)
		case "EV":
			e.applyEV(ctx, fields)
		case "MA":
			e.applyMA(ctx, fields)
		case "PA":
			e.applyPA(ctx, fields)
		}
	}
}

func (e *Engine) applyCT(ctx *dumpContext, fields map[string]string) {
	if !ctx.inSupportedSport {
		return
	}
	if v, ok := fields["NA"]; ok {
		ctx.tournament = v
	}
	if v, ok := fields["CC"]; ok {
		ctx.tournamentCode = v
	} else if v, ok := fields["ID"]; ok {
		ctx.tournamentCode = v
	}
	if v, ok := fields["L3"]; ok {
		ctx.category = v
	}
}

func (e *Engine) applyEV(ctx *dumpContext, fields map[string]string) {
	if cl, ok := fields["CL"]; ok && cl != "" && e.registry.Has(cl) {
		ctx.sportID = cl
		ctx.inSupportedSport = true
	}
	if !ctx.inSupportedSport {
		return
	}
	cfg, ok := e.registry.Lookup(ctx.sportID)
	if !ok {
		return
	}

	idField := fields["ID"]
	eventID := extractEventID(idField)
	if eventID == "" {
		return
	}

	fullName := fields["NA"]
	team1, team2 := parseTeams(fullName, ctx.sportID, e.registry)

	tournament := ctx.tournament
	if v, ok := fields["TN"]; ok && v != "" {
		tournament = v
	}
	tournamentCode := ctx.tournamentCode
	if v, ok := fields["TC"]; ok && v != "" {
		tournamentCode = v
	}

	esRaw := fields["ES"]
	status := StatusPreMatch
	if esRaw != "" {
		status = StatusInPlay
	}

	m := &Match{
		EventID:        eventID,
		ItemID:         stripWireSuffix(idField),
		FullName:       fullName,
		SportID:        ctx.sportID,
		SportName:      cfg.Name,
		Team1:          team1,
		Team2:          team2,
		Tournament:     tournament,
		TournamentCode: tournamentCode,
		Status:         status,
		StatusRaw:      esRaw,
		ScoreRaw:       fields["SS"],
		Markets:        newMarketSet(),
	}
	if fi, ok := fields["OI"]; ok {
		m.FixtureID = fi
	}
	if st, ok := fields["ST"]; ok {
		if v, err := strconv.ParseInt(st, 10, 64); err == nil {
			m.ScheduledStart = v
		}
	}
	if cfg.SetScoring {
		m.Sets = parseSetScores(fields["SS"])
	}
	if cfg.HasPointScore {
		m.CurrentGame = parsePointScore(fields["XP"])
	}
	if cfg.HasServing {
		m.Serving = parseServing(fields["PI"])
	}

	e.matches[eventID] = m
	if m.FixtureID != "" {
		e.fixtureToEvent[m.FixtureID] = eventID
	}
	if m.ItemID != "" {
		e.itemToEvent[m.ItemID] = eventID
	}
	ctx.lastEventID = eventID
}

func (e *Engine) applyMA(ctx *dumpContext, fields map[string]string) {
	if ctx.lastEventID == "" {
		return
	}
	m, ok := e.matches[ctx.lastEventID]
	if !ok {
		return
	}
	marketID := fields["MA"]
	if marketID == "" {
		marketID = fields["ID"]
	}
	if marketID == "" {
		return
	}
	m.Markets.Add(&Market{
		MarketID:  marketID,
		Name:      fields["NA"],
		Suspended: fields["SU"] == "1",
	})
}

func (e *Engine) applyPA(ctx *dumpContext, fields map[string]string) {
	if ctx.lastEventID == "" {
		return
	}
	m, ok := e.matches[ctx.lastEventID]
	if !ok {
		return
	}
	market := m.Markets.Last()
	if market == nil {
		return
	}
	selID := fields["ID"]
	if selID == "" {
		return
	}
	position := 0
	if v, ok := fields["OR"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			position = n
		}
	}
	fractional := fields["OD"]
	sel := &Selection{
		SelectionID: selID,
		Fractional:  fractional,
		Decimal:     fractionalToDecimal(fractional),
		Position:    position,
		Suspended:   fields["SU"] == "1",
	}
	market.Selections = append(market.Selections, sel)

	if fi, ok := fields["FI"]; ok && fi != "" {
		e.selectionInfo[selID] = SelectionInfo{FixtureID: fi, Position: position}
	}
}

func extractEventID(idField string) string {
	m := reEVEventID.FindStringSubmatch(idField)
	if m == nil {
		return ""
	}
	return m[1]
}
