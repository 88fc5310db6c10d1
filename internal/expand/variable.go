package expand

import (
	"strconv"
	"strings"

	"gosh/internal/token"
)

// variableExpand is the first expansion stage. Only Bare tokens
// beginning with `$` are expanded; everything else (including quoted
// tokens — expansion inside quotes is intentionally not supported)
// passes through as a single unchanged fragment.
func variableExpand(t token.Token, env Env) []string {
	if t.Kind != token.Bare || !strings.HasPrefix(t.Text, "$") {
		return []string{t.Text}
	}

	name := t.Text[1:]
	var value string
	switch name {
	case "?":
		value = strconv.Itoa(env.LastReturnCode())
	case "$":
		value = strconv.Itoa(env.Pid())
	default:
		v, ok := env.Getenv(name)
		if !ok {
			return []string{""}
		}
		value = v
	}
	return strings.Split(value, " ")
}
