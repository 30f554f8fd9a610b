package declarations

import (
	"regexp"
	"strings"
)

// UnknownGUID is the sentinel stored when a link string carries no GUID.
const UnknownGUID = "UNKNOWN"

var guidPattern = regexp.MustCompile(`[0-9A-Fa-f]{32}`)

// ExtractGUID returns the first 32-hex-digit run found in the raw link
// string, uppercased, or UnknownGUID when no such run exists.
func ExtractGUID(link string) string {
	match := guidPattern.FindString(link)
	if match == "" {
		return UnknownGUID
	}
	return strings.ToUpper(match)
}
