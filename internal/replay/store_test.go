package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"
)

const testSquadrons = `squadrons:
  - name: "Alpha"
    cards:
      - name: "Talon Interceptor"
        count: 4
      - name: "Surge Cells"
        count: 4
      - name: "Bulwark Sentinel"
        count: 8
  - name: "Beta"
    cards:
      - name: "Specter Scout"
        count: 4
      - name: "Ghost Signature"
        count: 4
      - name: "Bulwark Sentinel"
        count: 8
`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func squadronPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "squadrons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSquadrons), 0o644))
	return path
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Begin("m1", 42, 1, 2))
	require.NoError(t, s.Record("m1", 1, &game.ActionPayload{Type: game.ActionEndTurn, Player: 0}))
	require.NoError(t, s.Record("m1", 2, &game.ActionPayload{Type: game.ActionEndTurn, Player: 1}))

	matches, err := s.Matches(t.Context())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m1", matches[0].ID)
	assert.EqualValues(t, 42, matches[0].Seed)
	assert.Equal(t, 1, matches[0].Squadron0)
	assert.Equal(t, 2, matches[0].Squadron1)
	assert.Equal(t, 2, matches[0].Actions)

	payloads, err := s.Actions(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, game.ActionEndTurn, payloads[0].Type)
	assert.Equal(t, 0, payloads[0].Player)
	assert.Equal(t, 1, payloads[1].Player)
}

func TestDuplicateMatchIDRejected(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin("m1", 1, 1, 1))
	assert.Error(t, s.Begin("m1", 2, 1, 1))
}

func TestMatchNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Match(t.Context(), "missing")
	assert.Error(t, err)

	_, _, err = s.Replay(t.Context(), "missing", squadronPath(t))
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Begin("m1", 1, 1, 2))
	require.NoError(t, s1.Close())

	// Reopening runs the migrations again and sees the old rows.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	matches, err := s2.Matches(t.Context())
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestReplayRebuildsJournaledMatch(t *testing.T) {
	s := openTestStore(t)
	squadrons := squadronPath(t)

	_, cards0, err := game.SquadronByNumber(squadrons, 1)
	require.NoError(t, err)
	_, cards1, err := game.SquadronByNumber(squadrons, 2)
	require.NoError(t, err)

	// Drive a live match and journal it the way a hosting server would.
	const seed = 1337
	require.NoError(t, s.Begin("live", seed, 1, 2))
	live := game.NewMatch(game.MatchConfig{
		Squadron0: cards0,
		Squadron1: cards1,
		Logger:    log.NewMemoryLogger(),
		Seed:      seed,
	}, nullController{}, nullController{})
	seq := 0
	live.Journal = func(n int, p *game.ActionPayload) {
		seq = n
		require.NoError(t, s.Record("live", n, p))
	}
	require.NoError(t, live.Setup())
	for i := 0; i < 4; i++ {
		payload := &game.ActionPayload{Type: game.ActionEndTurn, Player: live.State.TurnPlayer}
		require.NoError(t, live.ExecuteAction(payload))
	}
	require.Equal(t, 4, seq)

	liveDigest, err := game.StateDigest(live.State)
	require.NoError(t, err)

	state, logger, err := s.Replay(t.Context(), "live", squadrons)
	require.NoError(t, err)
	replayDigest, err := game.StateDigest(state)
	require.NoError(t, err)
	assert.Equal(t, liveDigest, replayDigest, "replay must land on the live state")
	assert.NotEmpty(t, logger.FormatAll())
}
