package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStampFillsEnvelope(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	var msg Lobby
	msg.Stamp(TypeLobby, now)

	raw, err := json.Marshal(&msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "lobby", decoded["type"])
	require.Equal(t, float64(1), decoded["v"])
	require.Equal(t, "2025-06-01T12:30:45Z", decoded["ts"])
}

func TestEventOmitsUnsetFields(t *testing.T) {
	ev := Event{Ev: EvFold, Seat: Int(3)}
	frame := EventFrame{Event: ev}
	frame.Stamp(TypeEvent, time.Unix(0, 0))

	raw, err := json.Marshal(&frame)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "FOLD", decoded["ev"])
	require.Equal(t, float64(3), decoded["seat"])
	require.NotContains(t, decoded, "amount")
	require.NotContains(t, decoded, "cards")
	require.NotContains(t, decoded, "rank")
}

func TestActionAmountMustBeAnInteger(t *testing.T) {
	var msg Action
	require.NoError(t, json.Unmarshal([]byte(`{"type":"action","hand_id":"H-20250601-00000","action":"RAISE_TO","amount":60}`), &msg))
	require.NotNil(t, msg.Amount)
	require.Equal(t, 60, *msg.Amount)

	msg = Action{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"action","action":"CALL"}`), &msg))
	require.Nil(t, msg.Amount)

	msg = Action{}
	require.Error(t, json.Unmarshal([]byte(`{"type":"action","action":"RAISE_TO","amount":60.5}`), &msg))
}

func TestHelloDistinguishesMissingTeam(t *testing.T) {
	var missing Hello
	require.NoError(t, json.Unmarshal([]byte(`{"type":"hello"}`), &missing))
	require.Nil(t, missing.Team)

	var empty Hello
	require.NoError(t, json.Unmarshal([]byte(`{"type":"hello","team":""}`), &empty))
	require.NotNil(t, empty.Team)
	require.Equal(t, "", *empty.Team)
}
