package godtc

import (
	"regexp"
	"strings"
)

// framePattern matches the "<sequence>: <hex bytes>" shape of a diagnostic
// response line, e.g. "1: 43 03 01 43".
var framePattern = regexp.MustCompile(`(\d+):[\s\v]*([0-9A-Fa-f\s\v]+)`)

var whitespace = regexp.MustCompile(`[\s\v]+`)

// ExtractPayload returns the hex payload of the first sequence-prefixed
// segment in ascii with all whitespace removed and upper cased. The bool
// is false when ascii holds no such segment.
func ExtractPayload(ascii string) (string, bool) {
	m := framePattern.FindStringSubmatch(ascii)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(whitespace.ReplaceAllString(m[2], "")), true
}
