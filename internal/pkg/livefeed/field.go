package livefeed

import "strings"

// TypeKey is the sentinel slot a record's type tag (CL, CT, EV, MA, PA, MG,
// CG) is stored under, since the tag itself carries no "=".
const TypeKey = "_type"

// ParseFields splits one record body on ";" and classifies each non-empty
// part: the substring before the first "=" is the key, the remainder the
// value; a part with no "=" is the record's type tag. Later keys win on
// duplicates. No unescaping is performed — the grammar has none.
func ParseFields(body string) map[string]string {
	fields := make(map[string]string)
	if body == "" {
		return fields
	}
	for _, part := range strings.Split(body, ";") {
		if part == "" {
			continue
		}
		if idx := strings.IndexByte(part, '='); idx >= 0 {
			fields[part[:idx]] = part[idx+1:]
		} else {
			fields[TypeKey] = part
		}
	}
	return fields
}
