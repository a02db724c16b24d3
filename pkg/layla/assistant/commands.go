// Package assistant – commands.go implements utility commands executed
// via chat messages:
//
//	/ping          - gateway latency
//	/toggledm      - toggle responses in direct messages
//	/toggleactive  - toggle the current channel's always-active flag
//	/wipe          - clear all conversation history
//	/help          - list commands
package assistant

import (
	"fmt"
	"strings"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// CommandResult contains the result of a command execution.
type CommandResult struct {
	// Response is the text to send back.
	Response string

	// Handled is true if the message was a valid command.
	Handled bool
}

// IsCommand returns true if the message starts with "/".
func IsCommand(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "/")
}

// HandleCommand processes a command from a chat message.
// Returns Handled=false for unknown commands so they fall through to
// normal trigger evaluation (Discord users type "/" for many reasons).
func (a *Assistant) HandleCommand(msg *channels.IncomingMessage) CommandResult {
	parts := strings.Fields(strings.TrimSpace(msg.Content))
	if len(parts) == 0 {
		return CommandResult{}
	}

	switch strings.ToLower(parts[0]) {
	case "/ping":
		return CommandResult{Response: a.pingCommand(), Handled: true}

	case "/toggledm":
		allowed := !a.allowDM.Load()
		a.allowDM.Store(allowed)
		state := "disallowed"
		if allowed {
			state = "allowed"
		}
		return CommandResult{
			Response: fmt.Sprintf("DM responses are now %s.", state),
			Handled:  true,
		}

	case "/toggleactive":
		return CommandResult{Response: a.toggleActiveCommand(msg.ChatID), Handled: true}

	case "/wipe":
		a.history.Clear()
		return CommandResult{Response: "Conversation history has been cleared.", Handled: true}

	case "/help":
		return CommandResult{Response: helpText, Handled: true}
	}

	return CommandResult{}
}

// pingCommand reports the gateway heartbeat latency when the channel can
// measure it.
func (a *Assistant) pingCommand() string {
	if lc, ok := a.channel.(channels.LatencyChannel); ok {
		return fmt.Sprintf("Pong! Latency: %.2f ms", float64(lc.Latency().Microseconds())/1000)
	}
	return "Pong!"
}

// toggleActiveCommand flips the channel's membership in the persisted
// active set.
func (a *Assistant) toggleActiveCommand(chatID string) string {
	if a.activation.IsActive(chatID) {
		if err := a.activation.Remove(chatID); err != nil {
			a.logger.Error("failed to deactivate channel", "chat_id", chatID, "error", err)
			return "Failed to update the active channel list."
		}
		return "This channel has been removed from the list of active channels."
	}

	if err := a.activation.Add(chatID); err != nil {
		a.logger.Error("failed to activate channel", "chat_id", chatID, "error", err)
		return "Failed to update the active channel list."
	}
	return "This channel has been added to the list of active channels!"
}

const helpText = `**Commands**
/ping - check the bot's latency
/toggledm - toggle responses in direct messages
/toggleactive - toggle always-on responses in this channel
/wipe - clear conversation history
/help - show this message

Outside active channels, mention the bot, reply to it, or use a trigger word to get a response.`
