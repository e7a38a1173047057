// Package protocol defines the JSON wire messages exchanged between the
// arena server and bot or spectator clients. Every server-to-client frame
// carries an Envelope; client-to-server frames are bare objects with a
// "type" discriminator.
package protocol

import "time"

// ProtocolVersion is the value of the "v" field on every outbound frame.
const ProtocolVersion = 1

// Outbound frame types.
const (
	TypeWelcome          = "welcome"
	TypeSpectatorWelcome = "spectator_welcome"
	TypeLobby            = "lobby"
	TypeStartHand        = "start_hand"
	TypeEvent            = "event"
	TypeAct              = "act"
	TypeSnapshot         = "snapshot"
	TypeSpectatorState   = "spectator_snapshot"
	TypeEndHand          = "end_hand"
	TypeMatchEnd         = "match_end"
	TypeAdmin            = "admin"
	TypeError            = "error"
)

// Inbound frame types.
const (
	TypeHello  = "hello"
	TypeAction = "action"
	TypeSkip   = "skip"
)

// Error codes carried by Error frames.
const (
	CodeBadHello      = "BAD_HELLO"
	CodeBadSchema     = "BAD_SCHEMA"
	CodeTeamRequired  = "TEAM_REQUIRED"
	CodeTableFull     = "TABLE_FULL"
	CodeOutOfTurn     = "OUT_OF_TURN"
	CodeActionTooLate = "ACTION_TOO_LATE"
	CodeInvalidAction = "INVALID_ACTION"
	CodeUnknownType   = "UNKNOWN_TYPE"
)

// Envelope is embedded in every outbound message. Stamp fills it in just
// before the frame is marshalled.
type Envelope struct {
	Type string `json:"type"`
	V    int    `json:"v"`
	TS   string `json:"ts"`
}

// Stamp sets the frame type, protocol version and an ISO-8601 timestamp.
func (e *Envelope) Stamp(msgType string, now time.Time) {
	e.Type = msgType
	e.V = ProtocolVersion
	e.TS = now.UTC().Format(time.RFC3339Nano)
}

// Hello is the first frame a client must send after connecting. Team is a
// pointer so a missing field can be told apart from an empty label.
type Hello struct {
	Type string  `json:"type"`
	Team *string `json:"team"`
	Role string  `json:"role,omitempty"`
	Mode string  `json:"mode,omitempty"`
}

// Action is a bot's response to an act prompt. Amount is only meaningful
// for RAISE_TO and must be an integer when present.
type Action struct {
	Type   string `json:"type"`
	HandID string `json:"hand_id"`
	Action string `json:"action"`
	Amount *int   `json:"amount,omitempty"`
}

// TableConfig echoes the table parameters to a freshly seated client.
type TableConfig struct {
	Variant       string `json:"variant"`
	Seats         int    `json:"seats"`
	StartingStack int    `json:"starting_stack"`
	SB            int    `json:"sb"`
	BB            int    `json:"bb"`
	MoveTimeMS    int    `json:"move_time_ms"`
}

type Welcome struct {
	Envelope
	TableID string      `json:"table_id"`
	Seat    int         `json:"seat"`
	Config  TableConfig `json:"config"`
}

type SpectatorWelcome struct {
	Envelope
	TableID string      `json:"table_id"`
	Mode    string      `json:"mode"`
	Config  TableConfig `json:"config"`
}

type LobbyPlayer struct {
	Seat      int    `json:"seat"`
	Team      string `json:"team"`
	Connected bool   `json:"connected"`
	Stack     int    `json:"stack"`
}

type Lobby struct {
	Envelope
	Players []LobbyPlayer `json:"players"`
}

type SeatStack struct {
	Seat  int `json:"seat"`
	Stack int `json:"stack"`
}

type StartHand struct {
	Envelope
	HandID string      `json:"hand_id"`
	Seed   int64       `json:"seed"`
	Button int         `json:"button"`
	Stacks []SeatStack `json:"stacks"`
}

// Event is a single public table event. Ev names the kind; the remaining
// fields are populated per kind and omitted otherwise.
type Event struct {
	Ev     string   `json:"ev"`
	Seat   *int     `json:"seat,omitempty"`
	Amount *int     `json:"amount,omitempty"`
	Cards  []string `json:"cards,omitempty"`
	Card   string   `json:"card,omitempty"`
	Hand   []string `json:"hand,omitempty"`
	Board  []string `json:"board,omitempty"`
	Rank   string   `json:"rank,omitempty"`
	SBSeat *int     `json:"sb_seat,omitempty"`
	BBSeat *int     `json:"bb_seat,omitempty"`
	SB     *int     `json:"sb,omitempty"`
	BB     *int     `json:"bb,omitempty"`
}

// Event kind values.
const (
	EvPostBlinds = "POST_BLINDS"
	EvFold       = "FOLD"
	EvCheck      = "CHECK"
	EvCall       = "CALL"
	EvBet        = "BET"
	EvFlop       = "FLOP"
	EvTurn       = "TURN"
	EvRiver      = "RIVER"
	EvShowdown   = "SHOWDOWN"
	EvPotAward   = "POT_AWARD"
	EvEliminated = "ELIMINATED"
	EvTimeout    = "TIMEOUT"
	EvSkip       = "SKIP"
)

// EventFrame is an Event broadcast on the wire.
type EventFrame struct {
	Envelope
	Event
}

type ActYou struct {
	Hole      []string `json:"hole"`
	Stack     int      `json:"stack"`
	Committed int      `json:"committed"`
	ToCall    int      `json:"to_call"`
	TimeMS    int      `json:"time_ms"`
}

type ActTable struct {
	SB     int `json:"sb"`
	BB     int `json:"bb"`
	Seats  int `json:"seats"`
	Button int `json:"button"`
}

type PublicPlayer struct {
	Seat      int  `json:"seat"`
	Stack     int  `json:"stack"`
	Committed int  `json:"committed"`
	HasFolded bool `json:"has_folded"`
}

// Act prompts the seat whose turn it is. Exactly one Act is outstanding
// per table at any time.
type Act struct {
	Envelope
	HandID            string         `json:"hand_id"`
	Seat              int            `json:"seat"`
	Phase             string         `json:"phase"`
	Pot               int            `json:"pot"`
	CurrentBet        int            `json:"current_bet"`
	MinRaiseIncrement int            `json:"min_raise_increment"`
	You               ActYou         `json:"you"`
	Table             ActTable       `json:"table"`
	Players           []PublicPlayer `json:"players"`
	Community         []string       `json:"community"`
	Legal             []string       `json:"legal"`
	CallAmount        *int           `json:"call_amount"`
	MinRaiseTo        *int           `json:"min_raise_to"`
	MaxRaiseTo        *int           `json:"max_raise_to"`
}

type SnapshotYou struct {
	Seat   int      `json:"seat"`
	Hole   []string `json:"hole"`
	Stack  int      `json:"stack"`
	ToCall int      `json:"to_call"`
}

// Snapshot restores a reconnecting player's view of the hand in progress.
type Snapshot struct {
	Envelope
	AtHandID        string         `json:"at_hand_id"`
	Phase           string         `json:"phase"`
	Pot             int            `json:"pot"`
	You             SnapshotYou    `json:"you"`
	Players         []PublicPlayer `json:"players"`
	Community       []string       `json:"community"`
	NextActor       *int           `json:"next_actor"`
	TimeMSRemaining int            `json:"time_ms_remaining"`
}

type EndHand struct {
	Envelope
	HandID string      `json:"hand_id"`
	Stacks []SeatStack `json:"stacks"`
}

type MatchWinner struct {
	Seat int    `json:"seat"`
	Team string `json:"team"`
}

type FinalStack struct {
	Seat  int    `json:"seat"`
	Team  string `json:"team"`
	Stack int    `json:"stack"`
}

type MatchEnd struct {
	Envelope
	Winner      *MatchWinner `json:"winner"`
	FinalStacks []FinalStack `json:"final_stacks"`
}

type SpectatorSeat struct {
	Seat      int      `json:"seat"`
	Team      string   `json:"team"`
	Stack     int      `json:"stack"`
	Committed int      `json:"committed"`
	HasFolded bool     `json:"has_folded"`
	Connected bool     `json:"connected"`
	Hole      []string `json:"hole,omitempty"`
}

// SpectatorState is the omniscient table view pushed to spectators.
type SpectatorState struct {
	Envelope
	TableID         string          `json:"table_id"`
	HandID          string          `json:"hand_id"`
	Phase           string          `json:"phase"`
	Pot             int             `json:"pot"`
	SB              int             `json:"sb"`
	BB              int             `json:"bb"`
	Button          int             `json:"button"`
	Community       []string        `json:"community"`
	Seats           []SpectatorSeat `json:"seats"`
	NextActor       *int            `json:"next_actor"`
	TimeMSRemaining *int            `json:"time_ms_remaining"`
}

// Admin reports an operator intervention, such as a skipped turn.
type Admin struct {
	Envelope
	Event string `json:"event"`
	Seat  int    `json:"seat"`
}

type Error struct {
	Envelope
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Int returns a pointer to v, for optional numeric fields.
func Int(v int) *int { return &v }
