// Package delivery splits long replies into messages that fit the chat transport's size limit.
package delivery

import "strings"

// DefaultLimit is the per-message size limit of the chat transport, in bytes.
const DefaultLimit = 2000

// Message is a reply ready for the transport: one or more chunks sent in order.
type Message struct {
	Content   []string `json:"messages"`
	Ephemeral bool     `json:"ephemeral"`
}

// NewMessage chunks text with the given limit.
func NewMessage(text string, limit int, ephemeral bool) Message {
	return Message{Content: Chunk(text, limit), Ephemeral: ephemeral}
}

// Chunk splits text on line boundaries into pieces that stay below limit.
//
// A chunk is flushed before appending a line that would bring it to limit-1
// bytes or more. Lines are never split, so a single line longer than the limit
// becomes its own oversized chunk. A non-positive limit selects DefaultLimit.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder
	for _, line := range lines(text) {
		if current.Len() > 0 && current.Len()+len(line) >= limit-1 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// lines splits on "\n", strips a trailing "\r" and drops the empty segment after a final newline.
func lines(text string) []string {
	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, part := range parts {
		parts[i] = strings.TrimSuffix(part, "\r")
	}
	return parts
}
