// Package twitch is the shared multi-user chat surface: a minimal IRC
// client over Twitch's WebSocket gateway. Connection management stays here;
// everything conversational is delegated to the facade.
package twitch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ThomasBalaban/namiv3/internal/application"
	"github.com/ThomasBalaban/namiv3/internal/config"
	"github.com/ThomasBalaban/namiv3/internal/infra/logging"
)

const gatewayURL = "wss://irc-ws.chat.twitch.tv:443"

type Client struct {
	cfg    config.TwitchConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	mu   sync.Mutex // guards conn writes
	conn *websocket.Conn
}

func New(cfg config.TwitchConfig, facade *application.BotFacade, log *zerolog.Logger) *Client {
	return &Client{cfg: cfg, facade: facade, log: log}
}

// Run connects, joins the channel and processes messages until the context
// is cancelled. Dropped connections are retried with a capped backoff.
func (c *Client) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := c.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("twitch connection lost")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		return fmt.Errorf("dial twitch: %w", err)
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	for _, line := range []string{
		"PASS oauth:" + c.cfg.Token,
		"NICK " + strings.ToLower(c.cfg.Username),
		"JOIN #" + strings.ToLower(c.cfg.Channel),
	} {
		if err := c.writeLine(line); err != nil {
			return err
		}
	}
	c.log.Info().Str("channel", c.cfg.Channel).Msg("joined twitch chat")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		// The gateway batches IRC lines in one frame.
		for _, raw := range strings.Split(string(payload), "\r\n") {
			if raw == "" {
				continue
			}
			c.handleLine(ctx, raw)
		}
	}
}

func (c *Client) handleLine(ctx context.Context, raw string) {
	if strings.HasPrefix(raw, "PING") {
		if err := c.writeLine("PONG" + strings.TrimPrefix(raw, "PING")); err != nil {
			c.log.Warn().Err(err).Msg("pong failed")
		}
		return
	}

	speaker, text, ok := parsePrivmsg(raw)
	if !ok {
		return
	}
	c.log.Debug().Str("username", speaker).Str("text", text).Msg("chat message")

	ctx = logging.WithChannel(ctx, c.cfg.Channel)
	reply, err := c.facade.HandleChatMessage(ctx, speaker, text)
	if err != nil {
		c.log.Error().Err(err).Str("username", speaker).Msg("chat turn failed")
	}
	if reply == "" {
		return
	}
	if err := c.Say(ctx, c.cfg.Channel, reply); err != nil {
		c.log.Error().Err(err).Msg("send reply failed")
	}
}

// Say sends one chat line to the channel.
func (c *Client) Say(_ context.Context, channel, text string) error {
	return c.writeLine(fmt.Sprintf("PRIVMSG #%s :%s", strings.ToLower(channel), text))
}

func (c *Client) writeLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// parsePrivmsg extracts speaker and text from a raw IRC line shaped like
// ":nick!user@host PRIVMSG #channel :message text".
func parsePrivmsg(raw string) (speaker, text string, ok bool) {
	if !strings.HasPrefix(raw, ":") {
		return "", "", false
	}
	rest := raw[1:]
	bang := strings.IndexByte(rest, '!')
	privmsg := strings.Index(rest, " PRIVMSG ")
	if bang < 0 || privmsg < 0 || bang > privmsg {
		return "", "", false
	}
	speaker = rest[:bang]
	colon := strings.Index(rest[privmsg:], " :")
	if colon < 0 {
		return "", "", false
	}
	text = rest[privmsg+colon+2:]
	return speaker, text, text != ""
}
