// Package channels defines the interfaces and types a chat platform must
// expose to the assistant. The platform adapter (Discord) owns the gateway
// connection; the assistant only reads incoming messages and sends replies.
package channels

import (
	"context"
	"fmt"
	"time"
)

// Channel defines the interface every platform adapter must implement.
type Channel interface {
	// Name returns the channel identifier (e.g. "discord").
	Name() string

	// Connect establishes the connection to the messaging platform.
	Connect(ctx context.Context) error

	// Disconnect gracefully closes the connection.
	Disconnect() error

	// Send sends a message to the specified chat.
	Send(ctx context.Context, to string, message *OutgoingMessage) error

	// Receive returns a Go channel that emits incoming messages.
	Receive() <-chan *IncomingMessage

	// IsConnected returns true if the channel is connected.
	IsConnected() bool
}

// PresenceChannel extends Channel with typing and status indicators.
type PresenceChannel interface {
	Channel

	// SendTyping sends a "typing..." indicator to the chat.
	SendTyping(ctx context.Context, to string) error

	// SetStatus updates the bot's displayed activity status.
	SetStatus(ctx context.Context, status string) error
}

// LatencyChannel extends Channel with gateway latency reporting.
type LatencyChannel interface {
	Channel

	// Latency returns the current heartbeat round-trip time.
	Latency() time.Duration
}

// Identity describes the bot's own account on the platform.
type Identity struct {
	// ID is the bot's user identifier.
	ID string

	// Name is the bot's display name.
	Name string
}

// Attachment describes a file attached to an incoming message.
type Attachment struct {
	// URL is the direct download URL.
	URL string

	// Filename is the original filename, used for type gating.
	Filename string

	// Size is the file size in bytes.
	Size int
}

// IncomingMessage represents a message received from the platform.
type IncomingMessage struct {
	// ID is the unique message identifier in the source channel.
	ID string

	// Channel identifies the source channel (e.g. "discord").
	Channel string

	// From is the sender identifier on the platform.
	From string

	// FromName is the sender display name.
	FromName string

	// FromBot indicates the author is a bot account (including ourselves).
	FromBot bool

	// ChatID is the guild channel or DM identifier.
	ChatID string

	// IsDM indicates whether the message arrived in a direct message.
	IsDM bool

	// Content is the text content of the message.
	Content string

	// Timestamp is when the message was sent.
	Timestamp time.Time

	// ReplyTo is the ID of the message being replied to, if any.
	ReplyTo string

	// ReplyToAuthor is the author ID of the replied-to message, if resolvable.
	ReplyToAuthor string

	// BotMentioned indicates the bot account was explicitly mentioned.
	BotMentioned bool

	// Attachments lists file attachments, in platform order.
	Attachments []Attachment
}

// OutgoingMessage represents a message to be sent through a channel.
type OutgoingMessage struct {
	// Content is the text content of the message.
	Content string

	// ReplyTo is the ID of the message to reply to.
	ReplyTo string
}

// Errors.
var (
	ErrChannelDisconnected = fmt.Errorf("channel is not connected")
	ErrSendFailed          = fmt.Errorf("failed to send message")
	ErrConnectionFailed    = fmt.Errorf("failed to connect to channel")
)
