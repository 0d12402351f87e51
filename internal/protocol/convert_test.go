package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/mode"
)

func TestSnapshotSurvivesWire(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := engine.New(mode.Default(), engine.WithSeed(7), engine.WithStart(start))
	s.Start()
	s.Advance(start.Add(1500 * time.Millisecond))
	s.HardDrop()
	s.Hold()
	want := s.Snapshot()
	require.NotNil(t, want.Current)
	require.NotNil(t, want.Held)

	data, err := json.Marshal(Envelope{Type: MsgSnapshot, Payload: FromSnapshot(want)})
	require.NoError(t, err)

	typ, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgSnapshot, typ)

	var payload SnapshotPayload
	require.NoError(t, ExtractPayload(data, &payload))
	assert.Equal(t, game.Cols, payload.Width)
	assert.Len(t, payload.Board, game.Cols*game.Rows)
	assert.Equal(t, want, payload.Snapshot())
}

func TestExtractPayloadMissing(t *testing.T) {
	var p StartPayload
	require.NoError(t, ExtractPayload([]byte(`{"type":"pause"}`), &p))
	assert.Equal(t, StartPayload{}, p)
	assert.Error(t, ExtractPayload([]byte(`{"type":`), &p))
}
