// Package explain resolves the tone tags trailing a message into a report.
package explain

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"tonetags/internal/standard"
)

// TagPrefix marks a token as a tag candidate.
const TagPrefix = "/"

// Resolve scans the trailing tokens of text from the end toward the start.
//
// Scanning halts at the first token without TagPrefix; tags must form an
// unbroken trailing run. Each tag is explained by the first enabled standard,
// in registry order, that defines it. Unknown tags are skipped. Lines are
// reported in scan order, so the last tag of the message comes first.
func Resolve(text string, enabled []string, registry *standard.Registry) Report {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || len(enabled) == 0 {
		return Report{}
	}

	active := activeEntries(enabled, registry)
	var report Report
	for i := len(tokens) - 1; i >= 0; i-- {
		token := tokens[i]
		if !strings.HasPrefix(token, TagPrefix) {
			break
		}
		if line, ok := explainTag(token, active); ok {
			report.Lines = append(report.Lines, line)
		}
	}
	return report
}

// activeEntries keeps the registry entries the user enabled, in registry order.
func activeEntries(enabled []string, registry *standard.Registry) []standard.Entry {
	set := mapset.NewThreadUnsafeSet(enabled...)
	entries := registry.Entries()
	active := entries[:0]
	for _, entry := range entries {
		if set.Contains(entry.ID) {
			active = append(active, entry)
		}
	}
	return active
}

func explainTag(tag string, active []standard.Entry) (Line, bool) {
	for _, entry := range active {
		if explanation, ok := entry.Standard.Explain(tag); ok {
			return Line{
				StandardID:  entry.ID,
				Tag:         tag,
				Explanation: strings.TrimSpace(explanation),
			}, true
		}
	}
	return Line{}, false
}
