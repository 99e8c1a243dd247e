// Package standard parses tone tag standards and holds the process-wide registry.
//
// A standard is authored as a small line-oriented document:
//
//	# Title
//	Description lines.
//	## /j /joking
//	Explanation shared by /j and /joking.
//
// Standards are parsed once at startup and never mutated afterwards.
package standard

// Standard is a parsed, immutable set of tag definitions.
type Standard struct {
	Title       string
	Description string
	// Tags maps a tag token (including its leading slash) to its explanation.
	Tags map[string]string
}

// Explain returns the explanation for tag, if this standard defines it.
func (s *Standard) Explain(tag string) (string, bool) {
	explanation, ok := s.Tags[tag]
	return explanation, ok
}

// Entry binds a registry id to its standard.
type Entry struct {
	ID       string
	Standard *Standard
}

// Document is a raw standard source paired with its fixed id.
type Document struct {
	ID   string
	Text string
}
