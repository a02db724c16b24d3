// Package discord implements the Discord channel for Layla using discordgo.
//
// The adapter owns the gateway session and forwards message-create events to
// the assistant as channels.IncomingMessage values. Replies, typing
// indicators, and presence updates go back through the same session.
// Reconnection is handled by discordgo's gateway.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// Config holds Discord channel configuration.
type Config struct {
	// Token is the Discord bot token.
	Token string `yaml:"token"`

	// Status is the "playing" activity shown on connect.
	Status string `yaml:"status"`

	// SendTyping sends "typing..." indicators while processing.
	SendTyping bool `yaml:"send_typing"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendTyping: true,
	}
}

// Discord implements channels.Channel, channels.PresenceChannel, and
// channels.LatencyChannel.
type Discord struct {
	cfg     Config
	logger  *slog.Logger
	session *discordgo.Session

	// messages is the buffer of incoming messages forwarded to the assistant.
	messages chan *channels.IncomingMessage

	// connected tracks gateway state.
	connected atomic.Bool
}

// New creates a new Discord channel instance.
func New(cfg Config, logger *slog.Logger) *Discord {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discord{
		cfg:      cfg,
		logger:   logger.With("component", "discord"),
		messages: make(chan *channels.IncomingMessage, 256),
	}
}

// ---------- Channel Interface ----------

// Name returns "discord".
func (d *Discord) Name() string { return "discord" }

// Connect opens the Discord gateway WebSocket connection.
func (d *Discord) Connect(ctx context.Context) error {
	if d.cfg.Token == "" {
		return fmt.Errorf("%w: bot token is required", channels.ErrConnectionFailed)
	}

	session, err := discordgo.New("Bot " + d.cfg.Token)
	if err != nil {
		return fmt.Errorf("%w: creating session: %w", channels.ErrConnectionFailed, err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	session.AddHandler(d.onMessageCreate)

	if err := session.Open(); err != nil {
		return fmt.Errorf("%w: opening gateway: %w", channels.ErrConnectionFailed, err)
	}

	d.session = session
	d.connected.Store(true)

	user := session.State.User
	d.logger.Info("discord: connected", "bot", user.Username, "id", user.ID)

	if d.cfg.Status != "" {
		if err := session.UpdateGameStatus(0, d.cfg.Status); err != nil {
			d.logger.Warn("discord: failed to set status", "error", err)
		}
	}

	return nil
}

// Disconnect closes the Discord gateway connection.
func (d *Discord) Disconnect() error {
	if d.session != nil {
		d.session.Close()
	}
	d.connected.Store(false)
	d.logger.Info("discord: disconnected")
	return nil
}

// Send sends a text message to the specified channel, optionally as a reply.
// Content must already fit Discord's per-message limit; the assistant's
// chunker is responsible for splitting long responses.
func (d *Discord) Send(ctx context.Context, to string, message *channels.OutgoingMessage) error {
	if d.session == nil {
		return channels.ErrChannelDisconnected
	}

	msgSend := &discordgo.MessageSend{Content: message.Content}
	if message.ReplyTo != "" {
		msgSend.Reference = &discordgo.MessageReference{MessageID: message.ReplyTo, ChannelID: to}
	}
	if _, err := d.session.ChannelMessageSendComplex(to, msgSend); err != nil {
		return fmt.Errorf("%w: channel %s: %w", channels.ErrSendFailed, to, err)
	}
	return nil
}

// Receive returns the incoming messages channel.
func (d *Discord) Receive() <-chan *channels.IncomingMessage {
	return d.messages
}

// IsConnected returns true if the bot is connected.
func (d *Discord) IsConnected() bool { return d.connected.Load() }

// Identity returns the bot's own user ID and display name.
// Only valid after Connect.
func (d *Discord) Identity() channels.Identity {
	if d.session == nil || d.session.State.User == nil {
		return channels.Identity{}
	}
	user := d.session.State.User
	return channels.Identity{ID: user.ID, Name: user.Username}
}

// ---------- PresenceChannel Interface ----------

// SendTyping sends a typing indicator to the channel.
func (d *Discord) SendTyping(ctx context.Context, to string) error {
	if d.session == nil || !d.cfg.SendTyping {
		return nil
	}
	return d.session.ChannelTyping(to)
}

// SetStatus updates the bot's "playing" activity.
func (d *Discord) SetStatus(ctx context.Context, status string) error {
	if d.session == nil {
		return channels.ErrChannelDisconnected
	}
	return d.session.UpdateGameStatus(0, status)
}

// ---------- LatencyChannel Interface ----------

// Latency returns the gateway heartbeat round-trip time.
func (d *Discord) Latency() time.Duration {
	if d.session == nil {
		return 0
	}
	return d.session.HeartbeatLatency()
}

// ---------- Event Handlers ----------

// onMessageCreate converts a Discord message event into an IncomingMessage
// and forwards it to the assistant. Messages from the bot itself are still
// forwarded (flagged FromBot); the assistant owns the rejection policy.
func (d *Discord) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	incoming := &channels.IncomingMessage{
		ID:        m.ID,
		Channel:   "discord",
		From:      m.Author.ID,
		FromName:  m.Author.Username,
		FromBot:   m.Author.Bot || m.Author.ID == s.State.User.ID,
		ChatID:    m.ChannelID,
		IsDM:      m.GuildID == "",
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}

	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			incoming.BotMentioned = true
			break
		}
	}

	if m.MessageReference != nil {
		incoming.ReplyTo = m.MessageReference.MessageID
	}
	if m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil {
		incoming.ReplyToAuthor = m.ReferencedMessage.Author.ID
	}

	for _, att := range m.Attachments {
		incoming.Attachments = append(incoming.Attachments, channels.Attachment{
			URL:      att.URL,
			Filename: att.Filename,
			Size:     att.Size,
		})
	}

	select {
	case d.messages <- incoming:
	default:
		d.logger.Warn("discord: message buffer full, dropping message", "msg_id", incoming.ID)
	}
}

// Compile-time interface verification.
var (
	_ channels.Channel         = (*Discord)(nil)
	_ channels.PresenceChannel = (*Discord)(nil)
	_ channels.LatencyChannel  = (*Discord)(nil)
)
