// Package assistant – prompt.go assembles the composite prompt sent to the
// completion gateway.
package assistant

import "strings"

// Envelope holds the sections of a composed prompt.
//
// Section order is a contract: system instructions, rendered history, image
// caption, search results, video transcript, closing cue. Sections that are
// empty contribute nothing; an absent enrichment never appears as a
// placeholder string in the prompt.
type Envelope struct {
	// Instructions is the system prompt, including the image-context
	// variant when a caption is present.
	Instructions string

	// History is the rendered per-user conversation log.
	History string

	// Caption is the image captioning block, if any.
	Caption string

	// Search is the web search annotation block, if any.
	Search string

	// Transcript is the video transcript summary instruction, if any.
	Transcript string

	// BotName terminates the prompt as a speaker cue ("Layla:") so the
	// model answers in the assistant's voice.
	BotName string
}

// String renders the envelope in its fixed section order.
func (e Envelope) String() string {
	sections := make([]string, 0, 6)
	for _, s := range []string{e.Instructions, e.History, e.Caption, e.Search, e.Transcript} {
		if s != "" {
			sections = append(sections, s)
		}
	}

	prompt := strings.Join(sections, "\n")
	if e.BotName != "" {
		prompt += "\n\n" + e.BotName + ":"
	}
	return prompt
}
