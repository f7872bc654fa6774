// Package chat connects the bot to Twitch IRC: it parses inbound
// privmsgs into the dispatcher's message shape and sends outbound text
// to the configured channel.
package chat

import (
	"context"
	"log/slog"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/onnwee/pointsbot/bot"
)

// Client wraps the IRC connection for a single channel. It satisfies
// the dispatcher's Sender.
type Client struct {
	irc     *twitch.Client
	channel string
}

// NewClient builds an IRC client for the given bot account and channel.
// The oauth token must carry chat:read and chat:edit scopes.
func NewClient(username, oauth, channel string) *Client {
	return &Client{irc: twitch.NewClient(username, oauth), channel: channel}
}

// OnMessage registers the inbound message callback.
func (c *Client) OnMessage(fn func(bot.ChatMessage)) {
	c.irc.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		fn(parseMessage(msg, c.channel))
	})
}

// Send writes one line of chat to the channel.
func (c *Client) Send(text string) {
	c.irc.Say(c.channel, text)
}

// Run joins the channel and blocks on the IRC connection until the
// context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := c.irc.Disconnect(); err != nil {
			slog.Debug("irc disconnect", slog.Any("err", err))
		}
	}()
	c.irc.Join(c.channel)
	slog.Info("joining chat", slog.String("channel", c.channel))
	return c.irc.Connect()
}

// parseMessage converts an IRC privmsg into the dispatcher's shape.
// The login name is the stable user id; the broadcaster badge marks the
// streamer (who is never tagged moderator by the platform).
func parseMessage(msg twitch.PrivateMessage, channel string) bot.ChatMessage {
	badges := msg.User.Badges
	return bot.ChatMessage{
		UserID:     msg.User.Name,
		Username:   msg.User.DisplayName,
		Text:       msg.Message,
		Color:      msg.User.Color,
		IsSub:      badges["subscriber"] > 0 || badges["founder"] > 0,
		IsVip:      badges["vip"] > 0,
		IsMod:      badges["moderator"] > 0,
		IsStreamer: badges["broadcaster"] > 0,
	}
}
