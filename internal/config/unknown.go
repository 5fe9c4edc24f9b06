package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownGlobalKeys are the valid flat top-level keys in the config file.
var knownGlobalKeys = map[string]bool{
	"profile": true,
	"logging": true,
	"network": true,
}

// knownProfileKeys are the valid keys inside a [profile.NAME] section.
var knownProfileKeys = map[string]bool{
	"access_key": true, "secret_key": true, "bucket": true,
	"cache_dir": true, "resumable_threshold": true,
	"logging": true, "network": true,
}

var knownGlobalKeysList = sortedKeys(knownGlobalKeys)
var knownProfileKeysList = sortedKeys(knownProfileKeys)

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// checkUnknownKeys inspects toml.MetaData for keys that were present in the
// file but never matched a struct field, reporting each unknown top-level key
// and each unknown key directly inside a [profile.NAME] section, plus the
// closest known key as a suggestion. Undecoded keys nested deeper (for
// example inside [logging] or [profile.NAME.network]) are not reported.
func checkUnknownKeys(md *toml.MetaData) error {
	var errs []error

	for _, key := range md.Undecoded() {
		parts := key
		if len(parts) == 0 {
			continue
		}

		switch {
		case len(parts) == 1:
			errs = append(errs, unknownKeyError(parts[0], knownGlobalKeysList, ""))
		case parts[0] == "profile" && len(parts) == 3:
			errs = append(errs, unknownKeyError(parts[2], knownProfileKeysList, fmt.Sprintf("profile.%s.", parts[1])))
		}
	}

	return errors.Join(errs...)
}

func unknownKeyError(key string, known []string, context string) error {
	suggestion := closestKey(key, known)
	if suggestion != "" {
		return fmt.Errorf("unknown config key %q (did you mean %q?)", context+key, context+suggestion)
	}

	return fmt.Errorf("unknown config key %q", context+key)
}

// closestKey returns the known key with the smallest Levenshtein distance to
// key, provided that distance is within maxLevenshteinDistance. Returns ""
// if no candidate is close enough.
func closestKey(key string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, candidate := range known {
		d := levenshtein(key, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	if bestDist > maxLevenshteinDistance {
		return ""
	}

	return best
}

// levenshtein computes the edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}

	if c < a {
		a = c
	}

	return a
}
