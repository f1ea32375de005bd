package interview

import (
	"slices"
	"strings"
)

// roleSynonyms maps accepted spellings, case-insensitively, to canonical
// role names. Unmatched input is rejected, never guessed.
var roleSynonyms = map[string]string{
	"software engineer":    "engineer",
	"engineer":             "engineer",
	"product manager":      "product",
	"product":              "product",
	"sales representative": "sales",
	"sales":                "sales",
}

// normalizeRole resolves a message to a canonical role. Exact matches win;
// otherwise the longest synonym contained in the message is taken, so that
// "I'd like a software engineer interview" still resolves.
func normalizeRole(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if role, ok := roleSynonyms[normalized]; ok {
		return role, true
	}

	synonyms := make([]string, 0, len(roleSynonyms))
	for synonym := range roleSynonyms {
		synonyms = append(synonyms, synonym)
	}
	slices.SortFunc(synonyms, func(a, b string) int {
		if lenDiff := len(b) - len(a); lenDiff != 0 {
			return lenDiff
		}
		return strings.Compare(a, b)
	})

	for _, synonym := range synonyms {
		if strings.Contains(normalized, synonym) {
			return roleSynonyms[synonym], true
		}
	}

	return "", false
}

// knownRoles lists the canonical roles, sorted.
func knownRoles() []string {
	roles := []string{}
	for _, role := range roleSynonyms {
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	slices.Sort(roles)
	return roles
}
