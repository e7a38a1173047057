// Package sdk is a small client library for writing arena bots in Go. A
// bot implements Strategy; the Client handles the websocket session,
// message dispatch and turn replies.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// Decision is a bot's answer to an act prompt.
type Decision struct {
	Action string
	Amount *int
}

// Strategy decides what to do with each turn prompt. OnEvent observes
// public table events and may be used to track state between prompts.
type Strategy interface {
	Act(prompt protocol.Act) Decision
	OnEvent(ev protocol.Event)
}

// Client runs one bot connection against an arena server.
type Client struct {
	url      string
	team     string
	strategy Strategy
	logger   *log.Logger

	conn *websocket.Conn
	seat int

	// MatchEnd holds the final result after Run returns nil.
	MatchEnd *protocol.MatchEnd
}

// New prepares a client; Dial establishes the connection.
func New(url, team string, strategy Strategy, logger *log.Logger) *Client {
	return &Client{
		url:      url,
		team:     team,
		strategy: strategy,
		logger:   logger.With("team", team),
		seat:     -1,
	}
}

// Seat returns the seat assigned by the server, or -1 before welcome.
func (c *Client) Seat() int { return c.seat }

// Dial connects and sends the hello frame.
func (c *Client) Dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dialling %s: %w", c.url, err)
	}
	c.conn = conn
	hello := protocol.Hello{Type: protocol.TypeHello, Team: &c.team}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return fmt.Errorf("sending hello: %w", err)
	}
	return nil
}

// Close drops the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Run reads frames and plays until the match ends, the connection drops
// or the context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading frame: %w", err)
		}
		done, err := c.dispatch(raw)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (c *Client) dispatch(raw []byte) (done bool, err error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return false, fmt.Errorf("malformed frame: %w", err)
	}

	switch head.Type {
	case protocol.TypeWelcome:
		var msg protocol.Welcome
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.seat = msg.Seat
		c.logger.Info("seated", "table", msg.TableID, "seat", msg.Seat)

	case protocol.TypeStartHand:
		var msg protocol.StartHand
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.logger.Debug("hand started", "hand", msg.HandID, "button", msg.Button)

	case protocol.TypeEvent:
		var msg protocol.EventFrame
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.strategy.OnEvent(msg.Event)

	case protocol.TypeAct:
		var msg protocol.Act
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		decision := c.strategy.Act(msg)
		reply := protocol.Action{
			Type:   protocol.TypeAction,
			HandID: msg.HandID,
			Action: decision.Action,
			Amount: decision.Amount,
		}
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(reply); err != nil {
			return false, fmt.Errorf("sending action: %w", err)
		}

	case protocol.TypeEndHand:
		var msg protocol.EndHand
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.logger.Debug("hand finished", "hand", msg.HandID)

	case protocol.TypeMatchEnd:
		var msg protocol.MatchEnd
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.MatchEnd = &msg
		if msg.Winner != nil {
			c.logger.Info("match over", "winner", msg.Winner.Team)
		}
		return true, nil

	case protocol.TypeError:
		var msg protocol.Error
		if err := json.Unmarshal(raw, &msg); err != nil {
			return false, err
		}
		c.logger.Warn("server error", "code", msg.Code, "msg", msg.Msg)
		switch msg.Code {
		case protocol.CodeBadHello, protocol.CodeTeamRequired, protocol.CodeTableFull:
			return false, fmt.Errorf("rejected by server: %s: %s", msg.Code, msg.Msg)
		}

	case protocol.TypeLobby, protocol.TypeSnapshot:
		// Informational; nothing to do.

	default:
		c.logger.Debug("ignoring frame", "type", head.Type)
	}
	return false, nil
}
