// Package strings provides string list utilities shared by services.
package strings

import (
	"strings"
)

// Dedupe collapses duplicates, keeping the first occurrence of each value.
// Values are compared verbatim. Order is preserved.
func Dedupe(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  core ", "extra", "core", "", "  "})
//	// Returns: []string{"core", "extra"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitList splits a separated free-form list and applies DedupeAndTrim.
//
// Example:
//
//	SplitList("core, common-namtao,,core", ",")
//	// Returns: []string{"core", "common-namtao"}
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return DedupeAndTrim(strings.Split(raw, sep))
}
