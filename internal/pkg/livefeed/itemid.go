package livefeed

import "regexp"

// ItemKind classifies an item ID into one of the three entity shapes the
// wire grammar uses, or unknown.
type ItemKind int

const (
	ItemUnknown ItemKind = iota
	ItemEvent
	ItemMarket
	ItemSelection
)

// ItemID is the result of classifying and decomposing an entity
// identifier. Integers are kept as strings to avoid precision loss on IDs
// that exceed 53 bits.
type ItemID struct {
	Kind        ItemKind
	EventID     string
	CategoryID  string
	MarketNum   string
	FixtureID   string
	SelectionID string
}

var (
	// trailingWireSuffix strips the opaque "_32" / "_32_0" platform version
	// tag, optionally followed by an action letter. Kept next to the
	// classification regexes; the header regexes in headers.go encode the
	// same tag, so a platform bump touches both files.
	trailingWireSuffix = regexp.MustCompile(`_32(?:_0)?[UDF]?$`)

	reItemEvent     = regexp.MustCompile(`^(?:OV|6V)(\d+)C(\d+)A$`)
	reItemMarket    = regexp.MustCompile(`^(?:OV|6V)(\d+)C(\d+)-(\d+)$`)
	reItemSelection = regexp.MustCompile(`^(?:OV|6VP?|OVES)(\d+)-0?(\d+)$`)
)

// ParseItemID classifies raw, which may already have had its trailing
// action suffix stripped by the caller.
func ParseItemID(raw string) ItemID {
	trimmed := trailingWireSuffix.ReplaceAllString(raw, "")

	if m := reItemEvent.FindStringSubmatch(trimmed); m != nil {
		return ItemID{Kind: ItemEvent, EventID: m[1], CategoryID: m[2]}
	}
	if m := reItemMarket.FindStringSubmatch(trimmed); m != nil {
		return ItemID{Kind: ItemMarket, EventID: m[1], CategoryID: m[2], MarketNum: m[3]}
	}
	if m := reItemSelection.FindStringSubmatch(trimmed); m != nil {
		return ItemID{Kind: ItemSelection, FixtureID: m[1], SelectionID: m[2]}
	}
	return ItemID{Kind: ItemUnknown}
}

// stripWireSuffix exposes the same trimming ParseItemID does internally, for
// building the itemId key stored on Match (see applyEV).
func stripWireSuffix(raw string) string {
	return trailingWireSuffix.ReplaceAllString(raw, "")
}
