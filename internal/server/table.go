package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/game"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/handid"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// stamper is any outbound message carrying an Envelope.
type stamper interface {
	Stamp(msgType string, now time.Time)
}

// pendingTurn tracks the single outstanding act prompt. timer is nil in
// manual-control mode.
type pendingTurn struct {
	seat     int
	handID   string
	deadline time.Time
	timer    *quartz.Timer
}

// Table coordinates one match: it owns the engine, the seat-to-session
// map and the turn timer. A single mutex serialises every entry point;
// outbound frames are enqueued without blocking, so holding the lock
// through a broadcast is safe.
type Table struct {
	id      string
	cfg     game.TableConfig
	logger  *log.Logger
	clock   quartz.Clock
	metrics *Metrics

	manual       bool
	presentDelay time.Duration

	mu         sync.Mutex
	engine     *game.Engine
	sessions   map[int]*session
	spectators map[*session]struct{}
	pending    *pendingTurn
	started    bool
	matchDone  bool

	presentCh chan []byte
	stop      chan struct{}
}

// NewTable builds an empty table ready to accept connections.
func NewTable(cfg Config, logger *log.Logger, clock quartz.Clock, metrics *Metrics) *Table {
	tc := cfg.TableConfig()
	t := &Table{
		id:           "T-1",
		cfg:          tc,
		logger:       logger.WithPrefix("table"),
		clock:        clock,
		metrics:      metrics,
		manual:       cfg.ManualControl || tc.MoveTimeMS == 0,
		presentDelay: time.Duration(cfg.PresentationDelayMS) * time.Millisecond,
		engine:       game.NewEngine(tc, handid.NewSequence(func() time.Time { return clock.Now() })),
		sessions:     make(map[int]*session),
		spectators:   make(map[*session]struct{}),
		presentCh:    make(chan []byte, 1024),
		stop:         make(chan struct{}),
	}
	go t.presentLoop()
	return t
}

// Close stops the presentation pacer and the turn timer.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.stop:
		return
	default:
	}
	close(t.stop)
	t.cancelTurnLocked()
}

// HandleConn runs one websocket connection to completion: handshake,
// seating (or spectator registration) and the inbound message loop.
func (t *Table) HandleConn(conn *websocket.Conn) {
	t.metrics.ConnectionsTotal.Inc()
	sess := newSession(conn, t.logger)
	go sess.writePump()
	defer sess.close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		sess.logger.Debug("closed before hello", "err", err)
		return
	}

	var hello protocol.Hello
	if err := json.Unmarshal(raw, &hello); err != nil || hello.Type != protocol.TypeHello {
		t.mu.Lock()
		t.sendErrorLocked(sess, protocol.CodeBadHello, "first message must be a hello")
		t.mu.Unlock()
		sess.closeAfterFlush()
		return
	}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if hello.Role == "spectator" {
		t.runSpectator(sess, hello.Mode)
		return
	}
	t.runPlayer(sess, hello)
}

func (t *Table) runPlayer(sess *session, hello protocol.Hello) {
	t.mu.Lock()
	if hello.Team == nil {
		t.sendErrorLocked(sess, protocol.CodeBadSchema, "hello requires a team field")
		t.mu.Unlock()
		sess.closeAfterFlush()
		return
	}
	seat, err := t.engine.AssignSeat(*hello.Team)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrTeamRequired):
			t.sendErrorLocked(sess, protocol.CodeTeamRequired, "team name must not be empty")
		case errors.Is(err, game.ErrTableFull):
			t.sendErrorLocked(sess, protocol.CodeTableFull, "no seats available")
		default:
			t.sendErrorLocked(sess, protocol.CodeBadHello, err.Error())
		}
		t.mu.Unlock()
		sess.closeAfterFlush()
		return
	}
	sess.seat = seat.Seat
	sess.team = seat.Team

	// A fresh connection for the same team replaces the old one.
	if old, ok := t.sessions[seat.Seat]; ok && old != sess {
		old.closeWith(websocket.ClosePolicyViolation, "replaced by a new connection for this team")
	}
	t.sessions[seat.Seat] = sess
	t.engine.SetConnected(seat.Seat, true)
	t.metrics.PlayersConnected.Set(float64(len(t.sessions)))

	welcome := protocol.Welcome{
		TableID: t.id,
		Seat:    seat.Seat,
		Config: protocol.TableConfig{
			Variant:       t.cfg.Variant,
			Seats:         t.cfg.Seats,
			StartingStack: t.cfg.StartingStack,
			SB:            t.cfg.SmallBlind,
			BB:            t.cfg.BigBlind,
			MoveTimeMS:    t.cfg.MoveTimeMS,
		},
	}
	t.sendLocked(sess, protocol.TypeWelcome, &welcome)
	t.broadcastLobbyLocked()

	if t.engine.HandInProgress() {
		t.sendSnapshotLocked(sess)
	} else {
		t.maybeStartHandLocked()
	}
	t.mu.Unlock()

	t.logger.Info("player joined", "seat", seat.Seat, "team", seat.Team)
	t.readLoop(sess)

	t.mu.Lock()
	if t.sessions[sess.seat] == sess {
		delete(t.sessions, sess.seat)
		t.engine.SetConnected(sess.seat, false)
		t.metrics.PlayersConnected.Set(float64(len(t.sessions)))
		t.broadcastLobbyLocked()
	}
	t.mu.Unlock()
	t.logger.Info("player left", "seat", sess.seat, "team", sess.team)
}

// readLoop dispatches inbound frames until the connection drops.
func (t *Table) readLoop(sess *session) {
	for {
		_, raw, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.Type == "" {
			t.mu.Lock()
			t.sendErrorLocked(sess, protocol.CodeBadSchema, "frames must be JSON objects with a type")
			t.mu.Unlock()
			continue
		}
		switch head.Type {
		case protocol.TypeAction:
			var act protocol.Action
			if err := json.Unmarshal(raw, &act); err != nil {
				t.mu.Lock()
				t.sendErrorLocked(sess, protocol.CodeBadSchema, "malformed action frame")
				t.mu.Unlock()
				continue
			}
			t.handleAction(sess, act)
		case protocol.TypeSkip:
			t.handleSkip(sess)
		default:
			t.mu.Lock()
			t.sendErrorLocked(sess, protocol.CodeUnknownType, fmt.Sprintf("unsupported frame type %q", head.Type))
			t.mu.Unlock()
		}
	}
}

func (t *Table) handleAction(sess *session, msg protocol.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sess.spectator {
		t.sendErrorLocked(sess, protocol.CodeUnknownType, "spectators cannot act")
		return
	}
	if err := handid.Validate(msg.HandID); err != nil {
		t.sendErrorLocked(sess, protocol.CodeBadSchema, err.Error())
		return
	}
	if !t.engine.HandInProgress() || msg.HandID != t.engine.HandID() {
		t.sendErrorLocked(sess, protocol.CodeActionTooLate, "that hand is no longer accepting actions")
		return
	}
	if t.pending == nil || t.pending.seat != sess.seat {
		if t.engine.NextActor() != sess.seat {
			t.sendErrorLocked(sess, protocol.CodeOutOfTurn, "it is not your turn")
		} else {
			t.sendErrorLocked(sess, protocol.CodeActionTooLate, "the move timer already resolved this turn")
		}
		return
	}
	action, ok := game.ParseAction(msg.Action)
	if !ok {
		t.sendErrorLocked(sess, protocol.CodeInvalidAction, fmt.Sprintf("unknown action %q", msg.Action))
		return
	}
	amount := 0
	if action == game.ActionRaiseTo {
		if msg.Amount == nil {
			t.sendErrorLocked(sess, protocol.CodeBadSchema, "RAISE_TO requires an integer amount")
			return
		}
		amount = *msg.Amount
	}

	events, err := t.engine.ApplyAction(sess.seat, action, amount)
	if err != nil {
		// An invalid action does not consume the turn; the timer keeps
		// running.
		switch {
		case errors.Is(err, game.ErrOutOfTurn):
			t.sendErrorLocked(sess, protocol.CodeOutOfTurn, "it is not your turn")
		default:
			t.sendErrorLocked(sess, protocol.CodeInvalidAction, err.Error())
		}
		return
	}
	t.cancelTurnLocked()
	t.metrics.ActionsTotal.WithLabelValues(string(action)).Inc()
	t.broadcastEventsLocked(events)
	t.afterEventsLocked()
}

// handleSkip resolves the current turn with the timeout fallback. Only
// honoured in manual-control mode.
func (t *Table) handleSkip(sess *session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.manual {
		t.sendErrorLocked(sess, protocol.CodeUnknownType, "skip is only available under manual control")
		return
	}
	seat := t.engine.NextActor()
	if seat < 0 {
		return
	}
	t.cancelTurnLocked()
	admin := protocol.Admin{Event: protocol.EvSkip, Seat: seat}
	t.broadcastLocked(t.frame(protocol.TypeAdmin, &admin))
	t.resolveFallbackLocked(seat)
}

// turnExpired fires on the quartz timer when the actor ran out of time.
func (t *Table) turnExpired(p *pendingTurn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != p {
		return
	}
	t.pending = nil
	if !t.engine.HandInProgress() || t.engine.HandID() != p.handID {
		return
	}
	t.metrics.TimeoutsTotal.Inc()
	t.logger.Info("move timer expired", "seat", p.seat, "hand", p.handID)
	t.broadcastEventsLocked([]protocol.Event{{Ev: protocol.EvTimeout, Seat: protocol.Int(p.seat)}})
	t.resolveFallbackLocked(p.seat)
}

// resolveFallbackLocked applies the forced action for a seat that did not
// act: check when free, otherwise call, otherwise fold.
func (t *Table) resolveFallbackLocked(seat int) {
	w, err := t.engine.LegalActions(seat)
	if err != nil {
		t.logger.Error("fallback on unactionable seat", "seat", seat, "err", err)
		return
	}
	choice := game.FallbackAction(w)
	events, err := t.engine.ApplyAction(seat, choice, 0)
	if err != nil {
		t.logger.Error("fallback action rejected", "seat", seat, "action", choice, "err", err)
		return
	}
	t.broadcastEventsLocked(events)
	t.afterEventsLocked()
}

// afterEventsLocked moves the table forward once a turn has resolved.
func (t *Table) afterEventsLocked() {
	if t.engine.IsHandComplete() {
		t.finishHandLocked()
		return
	}
	t.promptNextLocked()
	t.pushSpectatorStateLocked()
}

// promptNextLocked arms the move timer for the next actor and sends the
// act prompt. The deadline runs even while the seat is disconnected, so a
// vanished bot cannot stall the table.
func (t *Table) promptNextLocked() {
	if t.pending != nil {
		return
	}
	seat := t.engine.NextActor()
	if seat < 0 {
		return
	}
	p := &pendingTurn{seat: seat, handID: t.engine.HandID()}
	if !t.manual {
		d := time.Duration(t.cfg.MoveTimeMS) * time.Millisecond
		p.deadline = t.clock.Now().Add(d)
		p.timer = t.clock.AfterFunc(d, func() { t.turnExpired(p) })
	}
	t.pending = p

	payload, err := t.engine.ActPayload(seat, t.cfg.MoveTimeMS)
	if err != nil {
		t.logger.Error("building act prompt", "seat", seat, "err", err)
		return
	}
	if sess, ok := t.sessions[seat]; ok {
		t.sendLocked(sess, protocol.TypeAct, &payload)
	}
}

func (t *Table) cancelTurnLocked() {
	if t.pending != nil && t.pending.timer != nil {
		t.pending.timer.Stop()
	}
	t.pending = nil
}

// timeRemainingMSLocked reports how long the current actor still has.
func (t *Table) timeRemainingMSLocked() int {
	if t.pending == nil || t.pending.timer == nil {
		return t.cfg.MoveTimeMS
	}
	remaining := t.pending.deadline.Sub(t.clock.Now()).Milliseconds()
	return int(max(0, remaining))
}

// maybeStartHandLocked deals the next hand when the table is ready. The
// first hand waits for two connected players; after that the match keeps
// dealing while chips and at least one live connection remain.
func (t *Table) maybeStartHandLocked() {
	if t.matchDone || !t.engine.CanStartHand() {
		return
	}
	connected := 0
	for _, s := range t.engine.Seats() {
		if s != nil && s.Stack > 0 && s.Connected {
			connected++
		}
	}
	if !t.started && connected < 2 {
		return
	}
	if connected == 0 {
		return
	}

	seed := t.clock.Now().UnixMilli()
	if err := t.engine.StartHand(seed); err != nil {
		t.logger.Error("starting hand", "err", err)
		return
	}
	t.started = true
	payload, err := t.engine.StartHandPayload()
	if err != nil {
		t.logger.Error("building start_hand", "err", err)
		return
	}
	t.logger.Info("hand started", "hand", payload.HandID, "button", payload.Button, "seed", seed)
	t.broadcastLocked(t.frame(protocol.TypeStartHand, &payload))
	t.broadcastEventsLocked(t.engine.ConsumePreEvents())
	t.promptNextLocked()
	t.pushSpectatorStateLocked()
}

func (t *Table) finishHandLocked() {
	payload, err := t.engine.EndHandPayload()
	if err != nil {
		t.logger.Error("building end_hand", "err", err)
		return
	}
	t.cancelTurnLocked()
	t.engine.ClearHand()
	t.metrics.HandsTotal.Inc()
	t.broadcastLocked(t.frame(protocol.TypeEndHand, &payload))
	t.logger.Info("hand finished", "hand", payload.HandID)

	if t.engine.IsMatchOver() {
		t.matchDone = true
		result := t.engine.MatchResult()
		t.broadcastLocked(t.frame(protocol.TypeMatchEnd, &result))
		if result.Winner != nil {
			t.logger.Info("match over", "winner_seat", result.Winner.Seat, "winner_team", result.Winner.Team)
		} else {
			t.logger.Info("match over with no winner")
		}
		return
	}
	t.maybeStartHandLocked()
}

func (t *Table) sendSnapshotLocked(sess *session) {
	snap, err := t.engine.SnapshotPayload(sess.seat, t.timeRemainingMSLocked())
	if err != nil {
		t.logger.Error("building snapshot", "seat", sess.seat, "err", err)
		return
	}
	t.sendLocked(sess, protocol.TypeSnapshot, &snap)
	// Re-issue the prompt if it is this seat's turn.
	if t.pending != nil && t.pending.seat == sess.seat {
		payload, err := t.engine.ActPayload(sess.seat, t.timeRemainingMSLocked())
		if err != nil {
			t.logger.Error("rebuilding act prompt", "seat", sess.seat, "err", err)
			return
		}
		t.sendLocked(sess, protocol.TypeAct, &payload)
	}
}

// frame stamps and marshals an outbound message.
func (t *Table) frame(msgType string, msg stamper) []byte {
	msg.Stamp(msgType, t.clock.Now())
	raw, err := json.Marshal(msg)
	if err != nil {
		t.logger.Error("marshalling frame", "type", msgType, "err", err)
		return nil
	}
	return raw
}

func (t *Table) sendLocked(sess *session, msgType string, msg stamper) {
	if raw := t.frame(msgType, msg); raw != nil {
		sess.enqueue(raw)
	}
}

func (t *Table) sendErrorLocked(sess *session, code, msg string) {
	t.metrics.ErrorsTotal.WithLabelValues(code).Inc()
	e := protocol.Error{Code: code, Msg: msg}
	t.sendLocked(sess, protocol.TypeError, &e)
}

// broadcastLocked delivers a frame to every player and spectator.
// Presentation-mode spectators receive it through the pacing queue.
func (t *Table) broadcastLocked(raw []byte) {
	if raw == nil {
		return
	}
	for _, sess := range t.sessions {
		sess.enqueue(raw)
	}
	queued := false
	for sess := range t.spectators {
		if sess.mode == "presentation" {
			if !queued {
				select {
				case t.presentCh <- raw:
				default:
					t.logger.Warn("presentation queue full, dropping frame")
				}
				queued = true
			}
			continue
		}
		sess.enqueue(raw)
	}
}

func (t *Table) broadcastEventsLocked(events []protocol.Event) {
	for _, ev := range events {
		frame := protocol.EventFrame{Event: ev}
		t.broadcastLocked(t.frame(protocol.TypeEvent, &frame))
	}
}

func (t *Table) broadcastLobbyLocked() {
	lobby := t.engine.LobbyState()
	t.broadcastLocked(t.frame(protocol.TypeLobby, &lobby))
}

func (t *Table) pushSpectatorStateLocked() {
	if len(t.spectators) == 0 {
		return
	}
	remaining := t.timeRemainingMSLocked()
	state := t.engine.SpectatorStateView(t.id, &remaining)
	if state == nil {
		return
	}
	raw := t.frame(protocol.TypeSpectatorState, state)
	if raw == nil {
		return
	}
	for sess := range t.spectators {
		if sess.mode != "presentation" {
			sess.enqueue(raw)
		}
	}
}
