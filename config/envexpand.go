package config

import (
	"os"
	"regexp"
	"strings"
)

// envRef captures the variable name and, for the ${NAME:-fallback} form, the
// fallback text.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ExpandEnv substitutes ${NAME} and ${NAME:-fallback} references in a config
// document with process environment values. A reference to an unset or
// empty variable becomes its fallback, or nothing.
func ExpandEnv(input string) string {
	return expandWith(input, os.LookupEnv)
}

func expandWith(input string, lookup func(string) (string, bool)) string {
	matches := envRef.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(input[last:m[0]])
		last = m[1]

		name := input[m[2]:m[3]]
		if v, ok := lookup(name); ok && v != "" {
			b.WriteString(v)
		} else if m[6] >= 0 {
			b.WriteString(input[m[6]:m[7]])
		}
	}
	b.WriteString(input[last:])
	return b.String()
}
