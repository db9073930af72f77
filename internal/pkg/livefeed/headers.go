package livefeed

import (
	"regexp"
	"strings"
)

// Header-recognition regexes, kept in one place: the "_32"/"_32_0" wire
// version is opaque and a future platform bump will invalidate these, so
// they must be easy to amend together.
var (
	reHeaderLongSuffix  = regexp.MustCompile(`_32_0[FUD]$`)
	reHeaderShortSuffix = regexp.MustCompile(`_32[FUD]$`)
	reEmptyHeader       = regexp.MustCompile(`(?i)^EMPTY[FUD]$`)
)

// isTopicHeader reports whether s looks like a sub-message header, per the
// pipe-fallback detection rules.
func isTopicHeader(s string) bool {
	if reHeaderLongSuffix.MatchString(s) {
		return true
	}
	if reHeaderShortSuffix.MatchString(s) {
		return true
	}
	if reEmptyHeader.MatchString(s) {
		return true
	}
	if s == "__time" {
		return true
	}
	if strings.HasPrefix(s, "#") {
		return true
	}
	return false
}

// isSkipHeader reports whether a recognized sub-message header carries no
// state-machine meaning ("__time", "#...", "EMPTY...") and should be
// ignored silently.
func isSkipHeader(header string) bool {
	if header == "__time" {
		return true
	}
	if strings.HasPrefix(header, "#") {
		return true
	}
	if reEmptyHeader.MatchString(header) {
		return true
	}
	return false
}
