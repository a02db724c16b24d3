// Package assistant – chunker.go splits completions into platform-safe
// message chunks.
package assistant

import "strings"

// DefaultChunkSize stays under Discord's 2000-character message limit with
// headroom for reply decoration.
const DefaultChunkSize = 1900

// SplitMessage splits text into ordered chunks of at most maxLength
// characters, breaking only on line boundaries. Lines are packed greedily:
// when adding the next line would exceed the budget, the current chunk is
// flushed (trimmed of surrounding whitespace) and the line starts a new one.
//
// A single line longer than maxLength is emitted whole; splitting mid-line
// would corrupt Markdown formatting, so the oversize chunk is the accepted
// edge case. No trailing content is ever dropped.
func SplitMessage(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkSize
	}

	var chunks []string
	var current string

	for _, line := range strings.Split(text, "\n") {
		if len(current)+len(line)+1 > maxLength {
			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			current = line
			continue
		}
		if current != "" {
			current += "\n"
		}
		current += line
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}

	return chunks
}
