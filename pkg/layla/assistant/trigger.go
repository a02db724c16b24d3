// Package assistant – trigger.go decides whether an inbound message should
// produce a generated response.
package assistant

import (
	"strings"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// ActiveSet reports whether a channel is flagged always-active.
type ActiveSet interface {
	IsActive(channelID string) bool
}

// TriggerEvaluator decides whether an inbound message qualifies for a
// response. All conditions are OR'd and evaluated cheapest-first.
//
// The evaluator assumes the caller has already rejected messages authored
// by bots and replies targeting messages not authored by this bot; those
// early checks prevent feedback loops and misdirected replies and are not
// trigger conditions.
type TriggerEvaluator struct {
	// Bot is the assistant's platform identity.
	Bot channels.Identity

	// Words are substrings that activate the bot anywhere in a message.
	Words []string

	// Active is the always-active channel set.
	Active ActiveSet

	// AllowDM reports whether direct messages get responses.
	AllowDM func() bool
}

// ShouldRespond reports whether the message qualifies for a response.
func (e *TriggerEvaluator) ShouldRespond(msg *channels.IncomingMessage) bool {
	switch {
	case e.Active != nil && e.Active.IsActive(msg.ChatID):
		return true
	case msg.IsDM && e.AllowDM != nil && e.AllowDM():
		return true
	case containsTriggerWord(msg.Content, e.Words):
		return true
	case msg.BotMentioned:
		return true
	case isReplyToBot(msg, e.Bot.ID):
		return true
	case nameInContent(msg.Content, e.Bot.Name):
		return true
	}
	return false
}

// containsTriggerWord reports whether content contains any configured
// trigger substring. Matching is literal and case-sensitive.
func containsTriggerWord(content string, words []string) bool {
	for _, word := range words {
		if word != "" && strings.Contains(content, word) {
			return true
		}
	}
	return false
}

// isReplyToBot reports whether the message is a reply targeting a message
// authored by the bot.
func isReplyToBot(msg *channels.IncomingMessage, botID string) bool {
	return msg.ReplyTo != "" && botID != "" && msg.ReplyToAuthor == botID
}

// nameInContent reports whether the bot's display name appears in the
// content, case-insensitively.
func nameInContent(content, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(name))
}
