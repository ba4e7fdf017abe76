package executor

import (
	"regexp"
	"strconv"

	"github.com/moonrockz/moonspec/internal/model"
)

var tagArgPattern = regexp.MustCompile(`^@?([A-Za-z0-9_-]+)\((?:"([^"]*)"|(\d+))\)$`)
var bareTagPattern = regexp.MustCompile(`^@?([A-Za-z0-9_-]+)$`)

// parseTagArg splits a tag into its bare name and an optional argument,
// quoted (e.g. `@skip("flaky")` -> ("skip", "flaky")) or numeric (e.g.
// `@retry(3)` -> ("retry", "3")).
func parseTagArg(tag string) (name, arg string) {
	if m := tagArgPattern.FindStringSubmatch(tag); m != nil {
		if m[2] != "" {
			return m[1], m[2]
		}

		return m[1], m[3]
	}

	if m := bareTagPattern.FindStringSubmatch(tag); m != nil {
		return m[1], ""
	}

	return tag, ""
}

// skipInfo reports whether p carries one of skipTags (names compared
// without the leading '@'), and the reason attached via @tag("reason").
func skipInfo(p model.Pickle, skipTags []string) (skip bool, reason string) {
	skipSet := make(map[string]bool, len(skipTags))

	for _, t := range skipTags {
		name, _ := parseTagArg(t)
		skipSet[name] = true
	}

	for _, t := range p.Tags {
		name, arg := parseTagArg(t)
		if skipSet[name] {
			if arg != "" {
				return true, arg
			}

			return true, "skipped via " + t
		}
	}

	return false, ""
}

// retryCount resolves the per-pickle retry budget: an explicit
// @retry(N) tag wins over the run-wide default.
func retryCount(p model.Pickle, defaultRetries int) int {
	for _, t := range p.Tags {
		name, arg := parseTagArg(t)
		if name != "retry" || arg == "" {
			continue
		}

		if n, err := strconv.Atoi(arg); err == nil && n >= 0 {
			return n
		}
	}

	return defaultRetries
}
