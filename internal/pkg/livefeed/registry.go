package livefeed

// seedRegistry is the built-in sport table. Presence of a key marks the
// sport as supported; everything else is dropped at the earliest
// opportunity.
var seedRegistry = map[string]SportConfig{
	"1": {
		SportID:    "1",
		Name:       "Soccer",
		Folder:     "soccer",
		Separators: []string{" v ", " vs "},
	},
	"12": {
		SportID:    "12",
		Name:       "Football",
		Folder:     "american-football",
		Separators: []string{" @ ", " v "},
	},
	"13": {
		SportID:       "13",
		Name:          "Tennis",
		Folder:        "tennis",
		Separators:    []string{" v "},
		SetScoring:    true,
		HasServing:    true,
		HasPointScore: true,
	},
	"14": {
		SportID:    "14",
		Name:       "Snooker",
		Folder:     "snooker",
		Separators: []string{" v "},
		SetScoring: true,
	},
	"17": {
		SportID:    "17",
		Name:       "Hockey",
		Folder:     "hockey",
		Separators: []string{" @ ", " v ", " vs "},
	},
	"18": {
		SportID:    "18",
		Name:       "Basketball",
		Folder:     "basketball",
		Separators: []string{" @ ", " vs ", " v "},
	},
	"92": {
		SportID:       "92",
		Name:          "Table Tennis",
		Folder:        "table-tennis",
		Separators:    []string{" v "},
		SetScoring:    true,
		HasServing:    true,
		HasPointScore: true,
	},
}

// Registry is the sport capability lookup. It starts from the static seed
// and may be extended at startup from configuration; the seed itself is
// never removed.
type Registry struct {
	sports map[string]SportConfig
}

// NewRegistry returns a Registry preloaded with the built-in seed table.
func NewRegistry() *Registry {
	r := &Registry{sports: make(map[string]SportConfig, len(seedRegistry))}
	for id, cfg := range seedRegistry {
		r.sports[id] = cfg
	}
	return r
}

// Extend merges additional or overriding sport configs on top of the seed.
// It never deletes an entry.
func (r *Registry) Extend(extra []SportConfig) {
	for _, cfg := range extra {
		r.sports[cfg.SportID] = cfg
	}
}

// Has reports whether sportID is supported.
func (r *Registry) Has(sportID string) bool {
	_, ok := r.sports[sportID]
	return ok
}

// Lookup returns the SportConfig for sportID.
func (r *Registry) Lookup(sportID string) (SportConfig, bool) {
	cfg, ok := r.sports[sportID]
	return cfg, ok
}

// defaultRegistry backs the package-level registry used by Engine when no
// custom Registry is supplied.
var defaultRegistry = NewRegistry()
