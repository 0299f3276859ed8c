package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/testutil"
)

func testGameConfig() *config.GameConfig {
	return &config.GameConfig{
		TurnTimeout:    60,
		SwapTimeout:    30,
		ReconnectGrace: 15,
		RoomTimeout:    10,
	}
}

// newLobbyRoom creates a room with four human players split 2-2,
// ready to start.
func newLobbyRoom(t *testing.T, mode Mode) (*Room, [4]*testutil.SimpleClient) {
	t.Helper()

	var clients [4]*testutil.SimpleClient
	for i := range clients {
		clients[i] = &testutil.SimpleClient{ID: []string{"p1", "p2", "p3", "p4"}[i], Name: []string{"Alice", "Bob", "Carol", "Dave"}[i]}
	}

	r := NewRoom(clients[0], mode, testGameConfig(), false, nil, nil)
	for _, c := range clients[1:] {
		require.NoError(t, r.Join(c))
	}
	// Alice and Carol on team 1, Bob and Dave on team 2
	require.NoError(t, r.SelectTeam("p1", 1))
	require.NoError(t, r.SelectTeam("p2", 2))
	require.NoError(t, r.SelectTeam("p3", 1))
	require.NoError(t, r.SelectTeam("p4", 2))
	return r, clients
}

// newStartedRoom starts the game as well.
func newStartedRoom(t *testing.T, mode Mode) (*Room, [4]*testutil.SimpleClient) {
	t.Helper()
	r, clients := newLobbyRoom(t, mode)
	require.NoError(t, r.Start("p1"))
	return r, clients
}

func TestJoin_RoomFull(t *testing.T) {
	t.Parallel()

	r, _ := newLobbyRoom(t, ModeCasual)
	extra := &testutil.SimpleClient{ID: "p5", Name: "Eve"}
	assert.Error(t, r.Join(extra))
}

func TestJoin_AfterStartRejected(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeCasual)
	extra := &testutil.SimpleClient{ID: "p5", Name: "Eve"}
	assert.Error(t, r.Join(extra))
}

func TestSelectTeam_Validation(t *testing.T) {
	t.Parallel()

	c1 := &testutil.SimpleClient{ID: "p1", Name: "Alice"}
	r := NewRoom(c1, ModeCasual, testGameConfig(), false, nil, nil)

	assert.Error(t, r.SelectTeam("p1", 3))
	assert.Error(t, r.SelectTeam("ghost", 1))
	assert.NoError(t, r.SelectTeam("p1", 2))
}

func TestStart_Validation(t *testing.T) {
	t.Parallel()

	c1 := &testutil.SimpleClient{ID: "p1", Name: "Alice"}
	c2 := &testutil.SimpleClient{ID: "p2", Name: "Bob"}
	r := NewRoom(c1, ModeCasual, testGameConfig(), false, nil, nil)
	require.NoError(t, r.Join(c2))

	// Not enough players
	assert.Error(t, r.Start("p1"))

	require.NoError(t, r.AddBot("p1", 1))
	require.NoError(t, r.AddBot("p1", 1))
	require.NoError(t, r.SelectTeam("p1", 1))
	require.NoError(t, r.SelectTeam("p2", 2))

	// Teams are 3-1
	assert.Error(t, r.Start("p1"))
}

func TestStart_OnlyHost(t *testing.T) {
	t.Parallel()

	r, _ := newLobbyRoom(t, ModeCasual)
	assert.Error(t, r.Start("p2"))
	assert.NoError(t, r.Start("p1"))
}

func TestStart_SeatsAlternateTeams(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeCasual)

	// Team 1 on seats 0/2, team 2 on seats 1/3, so partners face
	// each other in rotation order
	for i, s := range r.seats {
		require.NotNil(t, s)
		assert.Equal(t, i, s.Index)
		assert.Equal(t, i%2+1, s.Team())
	}
	assert.Equal(t, "p1", r.seats[0].ID)
	assert.Equal(t, "p3", r.seats[2].ID)
	assert.Equal(t, PhaseBetting, r.GetPhase())

	// Everyone got exactly 8 cards, privately
	for _, s := range r.seats {
		assert.Len(t, s.Hand, 8)
	}
}

func TestAddBot_AutoBalance(t *testing.T) {
	t.Parallel()

	c1 := &testutil.SimpleClient{ID: "p1", Name: "Alice"}
	r := NewRoom(c1, ModeCasual, testGameConfig(), false, nil, nil)
	require.NoError(t, r.SelectTeam("p1", 1))

	// Team 1 already has one player, so the bot balances to team 2
	require.NoError(t, r.AddBot("p1", 0))

	counts := r.teamCounts()
	assert.Equal(t, [2]int{1, 1}, counts)
}

func TestLeave_LobbyHandsOverHost(t *testing.T) {
	t.Parallel()

	r, _ := newLobbyRoom(t, ModeCasual)
	r.Leave("p1")

	assert.Equal(t, "p2", r.Host)
	assert.Equal(t, 3, r.PlayerCount())
}

func TestLeave_LastHumanClosesRoom(t *testing.T) {
	t.Parallel()

	c1 := &testutil.SimpleClient{ID: "p1", Name: "Alice"}
	r := NewRoom(c1, ModeCasual, testGameConfig(), false, nil, nil)
	require.NoError(t, r.AddBot("p1", 1))

	r.Leave("p1")
	assert.True(t, r.Closed())
}

func TestLeave_MidGameSeatBecomesAutoplay(t *testing.T) {
	t.Parallel()

	r, clients := newStartedRoom(t, ModeCasual)

	seat := r.seatByPlayer("p3")
	hand := seat.Hand

	r.Leave("p3")

	assert.True(t, seat.IsEmpty())
	assert.True(t, seat.Autoplay)
	// The hand stays with the seat so the deck stays whole
	assert.Equal(t, hand, seat.Hand)

	left := clients[0].LastOfType(protocol.MsgPlayerLeft)
	require.NotNil(t, left)
}

func TestHandleDisconnect_CasualEnablesAutoplay(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeCasual)
	r.HandleDisconnect("p2")

	seat := r.seatByPlayer("p2")
	require.NotNil(t, seat)
	assert.True(t, seat.Offline)
	assert.True(t, seat.Autoplay)
}

func TestHandleDisconnect_RankedWaitsForTimeout(t *testing.T) {
	t.Parallel()

	r, clients := newStartedRoom(t, ModeRanked)
	r.HandleDisconnect("p2")

	seat := r.seatByPlayer("p2")
	require.NotNil(t, seat)
	assert.True(t, seat.Offline)
	assert.False(t, seat.Autoplay, "ranked disconnect leaves the seat to the turn timer")

	offline := clients[0].LastOfType(protocol.MsgPlayerOffline)
	require.NotNil(t, offline)
	payload, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](offline)
	require.NoError(t, err)
	assert.Equal(t, "p2", payload.PlayerID)
	assert.Equal(t, 15*60, payload.Timeout)
}

func TestRebind_RestoresSeat(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeRanked)
	r.HandleDisconnect("p2")

	fresh := &testutil.SimpleClient{ID: "p2", Name: "Bob"}
	state, err := r.Rebind("p2", fresh)
	require.NoError(t, err)
	require.NotNil(t, state)

	seat := r.seatByPlayer("p2")
	assert.False(t, seat.Offline)
	assert.Same(t, fresh, seat.Client.(*testutil.SimpleClient))

	// The snapshot carries the reconnecting player's own hand
	assert.Len(t, state.Hand, len(seat.Hand))
	assert.Equal(t, r.ID, state.GameID)
}

func TestRebind_RejectedAfterGameOver(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeRanked)
	r.mu.Lock()
	r.phase = PhaseGameOver
	r.mu.Unlock()

	fresh := &testutil.SimpleClient{ID: "p2", Name: "Bob"}
	_, err := r.Rebind("p2", fresh)
	assert.Error(t, err)
}

func TestAbort_NotifiesEveryone(t *testing.T) {
	t.Parallel()

	r, clients := newStartedRoom(t, ModeCasual)
	r.Abort("test teardown")

	assert.True(t, r.Closed())
	for _, c := range clients {
		assert.NotNil(t, c.LastOfType(protocol.MsgGameAborted))
	}

	// Room operations are rejected after teardown
	assert.Error(t, r.PlaceBet("p2", 8, false))
}

func TestSpectate_GetsRedactedSnapshot(t *testing.T) {
	t.Parallel()

	r, _ := newStartedRoom(t, ModeCasual)
	watcher := &testutil.SimpleClient{ID: "w1", Name: "Watcher"}
	require.NoError(t, r.Spectate(watcher))

	msg := watcher.LastOfType(protocol.MsgGameState)
	require.NotNil(t, msg)
	state, err := protocol.ParsePayload[protocol.GameStateDTO](msg)
	require.NoError(t, err)

	assert.Empty(t, state.Hand, "spectators never see a hand")
	require.Len(t, state.Players, 4)
	for _, p := range state.Players {
		assert.Equal(t, 8, p.HandCount)
	}
}
