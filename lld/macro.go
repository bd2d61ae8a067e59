package lld

import (
	"regexp"
	"strings"
)

var (
	separatorRuns  = regexp.MustCompile(`[\s_-]+`)
	illegalChars   = regexp.MustCompile(`[^A-Za-z_]+`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// MacroName converts an arbitrary key into a discovery macro identifier:
// the key is uppercased, runs of whitespace/underscore/hyphen collapse to a
// single underscore, characters outside [A-Z_] are removed, duplicate
// underscores collapse, and the result is wrapped in the {#...} envelope.
//
// An input with no legal characters normalizes to "{#}". Callers rely on
// that degenerate but stable name, so it is returned rather than rejected.
func MacroName(key string) string {
	macro := strings.ToUpper(key)
	macro = separatorRuns.ReplaceAllString(macro, "_")
	macro = illegalChars.ReplaceAllString(macro, "")
	macro = underscoreRuns.ReplaceAllString(macro, "_")
	return "{#" + macro + "}"
}
