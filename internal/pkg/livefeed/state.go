package livefeed

import "strings"

// Engine owns the entire live-state world: the match table and its three
// reverse indexes. It is single-threaded and synchronous —
// Process performs no I/O and never blocks. Callers that drive it from
// multiple goroutines must serialize externally.
type Engine struct {
	registry *Registry

	matches        map[string]*Match    // eventId -> Match
	fixtureToEvent map[string]string    // fixtureId -> eventId
	itemToEvent    map[string]string    // itemId -> eventId
	selectionInfo  map[string]SelectionInfo
}

// NewEngine returns an Engine backed by the built-in sport registry.
func NewEngine() *Engine {
	return newEngineWithRegistry(defaultRegistry)
}

// NewEngineWithRegistry returns an Engine backed by a custom registry, e.g.
// one extended with operator-supplied sports.
func NewEngineWithRegistry(reg *Registry) *Engine {
	return newEngineWithRegistry(reg)
}

func newEngineWithRegistry(reg *Registry) *Engine {
	return &Engine{
		registry:       reg,
		matches:        make(map[string]*Match),
		fixtureToEvent: make(map[string]string),
		itemToEvent:    make(map[string]string),
		selectionInfo:  make(map[string]SelectionInfo),
	}
}

// Process splits raw into sub-messages and applies them in wire order,
// returning the change events produced. Full dumps never produce events.
// Process never returns a non-nil error; the decoder has no fatal path —
// the signature returns error only so embeddings have a stable extension
// point.
func (e *Engine) Process(raw []byte) ([]MatchUpdate, error) {
	var updates []MatchUpdate
	for _, sub := range SplitFrames(raw) {
		if isSkipHeader(sub.Header) {
			continue
		}
		switch {
		case strings.HasSuffix(sub.Header, "F"):
			e.applyFullDump(sub.Parts, strings.Contains(sub.Header, "InPlay"))
		case strings.HasSuffix(sub.Header, "U"), strings.HasSuffix(sub.Header, "D"), strings.HasSuffix(sub.Header, "I"):
			action := "update"
			if strings.HasSuffix(sub.Header, "D") {
				action = "delete"
			}
			updates = append(updates, e.applyIncremental(sub.Header, sub.Parts, action)...)
		default:
			// unrecognized header suffix: dropped silently
		}
	}
	return updates, nil
}

// AllMatches returns every tracked match, in no particular order.
func (e *Engine) AllMatches() []*Match {
	out := make([]*Match, 0, len(e.matches))
	for _, m := range e.matches {
		out = append(out, m)
	}
	return out
}

// LiveMatches returns matches currently in-play.
func (e *Engine) LiveMatches() []*Match {
	out := make([]*Match, 0, len(e.matches))
	for _, m := range e.matches {
		if m.Status == StatusInPlay {
			out = append(out, m)
		}
	}
	return out
}

// MatchesBySport returns matches for a given sport ID.
func (e *Engine) MatchesBySport(sportID string) []*Match {
	out := make([]*Match, 0)
	for _, m := range e.matches {
		if m.SportID == sportID {
			out = append(out, m)
		}
	}
	return out
}

// MatchCount reports how many matches are currently tracked.
func (e *Engine) MatchCount() int {
	return len(e.matches)
}

// Match looks up a single match by event ID.
func (e *Engine) Match(eventID string) (*Match, bool) {
	m, ok := e.matches[eventID]
	return m, ok
}

// EventIDForFixture resolves the fixtureId -> eventId reverse index.
func (e *Engine) EventIDForFixture(fixtureID string) (string, bool) {
	eventID, ok := e.fixtureToEvent[fixtureID]
	return eventID, ok
}

// EventIDForItem resolves the itemId -> eventId reverse index.
func (e *Engine) EventIDForItem(itemID string) (string, bool) {
	eventID, ok := e.itemToEvent[itemID]
	return eventID, ok
}

// SelectionInfo resolves the selectionId -> {fixtureId, position} reverse
// index populated from PA records' FI field.
func (e *Engine) SelectionInfo(selectionID string) (SelectionInfo, bool) {
	info, ok := e.selectionInfo[selectionID]
	return info, ok
}

func (e *Engine) resetAll() {
	e.matches = make(map[string]*Match)
	e.fixtureToEvent = make(map[string]string)
	e.itemToEvent = make(map[string]string)
	e.selectionInfo = make(map[string]SelectionInfo)
}
