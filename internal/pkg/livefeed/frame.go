package livefeed

import "strings"

// Control bytes the transport payload embeds.
const (
	ctrlNAK = 0x15 // start of sub-message
	ctrlDC4 = 0x14 // alternate start of sub-message
	ctrlSOH = 0x01 // prefix to F/U/D action suffix, stripped
	ctrlBS  = 0x08 // sub-message separator, stripped
	ctrlNUL = 0x00 // stripped

	internalSep = 0x1E // not present in the wire grammar, safe as a scratch separator
)

// SubMessage is one topic-headed unit inside a transport payload: a header
// string followed by zero or more record bodies.
type SubMessage struct {
	Header string
	Parts  []string
}

// SplitFrames separates a raw transport payload into sub-messages. It
// tolerates embedded NUL bytes and, for inputs that carry no control bytes
// at all (clean test data or archived logs), falls back to
// header-detection-based regrouping on "|".
func SplitFrames(raw []byte) []SubMessage {
	normalized := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case ctrlNAK, ctrlDC4:
			normalized = append(normalized, internalSep)
		case ctrlSOH, ctrlBS, ctrlNUL:
			// stripped
		default:
			normalized = append(normalized, b)
		}
	}

	var pieces []string
	for _, p := range strings.Split(string(normalized), "\x1e") {
		if p != "" {
			pieces = append(pieces, p)
		}
	}

	if len(pieces) == 1 {
		return splitByHeaderDetection(pieces[0])
	}

	subs := make([]SubMessage, 0, len(pieces))
	for _, p := range pieces {
		if sub, ok := splitOnPipe(p); ok {
			subs = append(subs, sub)
		}
	}
	return subs
}

// splitOnPipe splits one sub-message piece into a header and its record
// parts, dropping empty segments (e.g. a trailing "|").
func splitOnPipe(piece string) (SubMessage, bool) {
	var filtered []string
	for _, seg := range strings.Split(piece, "|") {
		if seg != "" {
			filtered = append(filtered, seg)
		}
	}
	if len(filtered) == 0 {
		return SubMessage{}, false
	}
	return SubMessage{Header: filtered[0], Parts: filtered[1:]}, true
}

// splitByHeaderDetection re-splits a control-byte-free piece on "|" and
// regroups the segments by recognizing which ones are topic headers.
func splitByHeaderDetection(piece string) []SubMessage {
	var segs []string
	for _, seg := range strings.Split(piece, "|") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}

	var subs []SubMessage
	cur := -1
	for _, seg := range segs {
		if isTopicHeader(seg) {
			subs = append(subs, SubMessage{Header: seg})
			cur = len(subs) - 1
			continue
		}
		if cur >= 0 {
			subs[cur].Parts = append(subs[cur].Parts, seg)
		}
	}
	return subs
}
