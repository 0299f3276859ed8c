package handler

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/game/room"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/server/session"
	"github.com/palemoky/color-whist/internal/server/storage"
	"github.com/palemoky/color-whist/internal/testutil"
	"github.com/palemoky/color-whist/internal/types"
)

// fakeServer implements ServerContext with real managers so handler
// tests exercise the full room/session stack.
type fakeServer struct {
	rooms       *room.RoomManager
	sessions    *session.Manager
	leaderboard *storage.LeaderboardManager
	maintenance bool

	mu      sync.Mutex
	rehomed map[string]types.ClientInterface
}

func (f *fakeServer) GetRoomManager() *room.RoomManager            { return f.rooms }
func (f *fakeServer) GetSessionManager() *session.Manager          { return f.sessions }
func (f *fakeServer) GetLeaderboard() *storage.LeaderboardManager  { return f.leaderboard }
func (f *fakeServer) IsMaintenanceMode() bool                      { return f.maintenance }
func (f *fakeServer) GetOnlineCount() int                          { return 0 }

func (f *fakeServer) RehomeClient(oldID string, client types.ClientInterface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rehomed == nil {
		f.rehomed = make(map[string]types.ClientInterface)
	}
	f.rehomed[oldID] = client
}

func newTestHandler(t *testing.T) (*Handler, *fakeServer) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	fs := &fakeServer{
		rooms:       room.NewRoomManager(config.Default(), nil, nil),
		sessions:    session.NewManager(15 * time.Minute),
		leaderboard: storage.NewLeaderboardManager(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
	}
	t.Cleanup(func() {
		fs.rooms.Shutdown()
		fs.sessions.Shutdown()
	})

	return NewHandler(fs), fs
}

func parseAs[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[T](msg)
	require.NoError(t, err)
	return payload
}

func TestHandleCreateGame_Casual(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgCreateGame, protocol.CreateGamePayload{Mode: "casual"}))

	resp := parseAs[protocol.GameCreatedPayload](t, c.LastOfType(protocol.MsgGameCreated))
	assert.Equal(t, "casual", resp.Mode)
	assert.NotEmpty(t, resp.GameID)
	assert.Equal(t, resp.GameID, c.GetGame())

	// Casual games never issue reconnect tokens
	assert.Empty(t, resp.ReconnectToken)
}

func TestHandleCreateGame_RankedIssuesToken(t *testing.T) {
	h, fs := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgCreateGame, protocol.CreateGamePayload{Mode: "ranked"}))

	resp := parseAs[protocol.GameCreatedPayload](t, c.LastOfType(protocol.MsgGameCreated))
	require.NotEmpty(t, resp.ReconnectToken)

	sess, err := fs.sessions.Validate(resp.ReconnectToken)
	require.NoError(t, err)
	assert.Equal(t, "p1", sess.PlayerID)
	assert.Equal(t, resp.GameID, sess.GameID)
}

func TestHandleCreateGame_MaintenanceRejected(t *testing.T) {
	h, fs := newTestHandler(t)
	fs.maintenance = true
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgCreateGame, protocol.CreateGamePayload{Mode: "casual"}))

	assert.NotNil(t, c.LastOfType(protocol.MsgError))
	assert.Nil(t, c.LastOfType(protocol.MsgGameCreated))
}

func TestHandleJoinGame_UnknownRoom(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgJoinGame, protocol.JoinGamePayload{GameID: "nope"}))

	errResp := parseAs[protocol.ErrorPayload](t, c.LastOfType(protocol.MsgError))
	assert.Equal(t, protocol.ErrCodeRoomNotFound, errResp.Code)
}

func TestHandleJoinGame_Spectator(t *testing.T) {
	h, _ := newTestHandler(t)
	host := &testutil.SimpleClient{ID: "p1", Name: "Alice"}
	watcher := &testutil.SimpleClient{ID: "w1", Name: "Watcher"}

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateGame, protocol.CreateGamePayload{Mode: "casual"}))
	created := parseAs[protocol.GameCreatedPayload](t, host.LastOfType(protocol.MsgGameCreated))

	h.Handle(watcher, protocol.MustNewMessage(protocol.MsgJoinGame, protocol.JoinGamePayload{
		GameID:    created.GameID,
		Spectator: true,
	}))

	joined := parseAs[protocol.GameJoinedPayload](t, watcher.LastOfType(protocol.MsgGameJoined))
	assert.True(t, joined.Spectator)
	assert.Len(t, joined.Players, 1)
	assert.Empty(t, joined.ReconnectToken)
}

func TestHandle_UnknownMessageType(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, &protocol.Message{Type: "no_such_thing"})

	errResp := parseAs[protocol.ErrorPayload](t, c.LastOfType(protocol.MsgError))
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errResp.Code)
}

func TestHandlePing(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 12345}))

	pong := parseAs[protocol.PongPayload](t, c.LastOfType(protocol.MsgPong))
	assert.Equal(t, int64(12345), pong.ClientTimestamp)
	assert.NotZero(t, pong.ServerTimestamp)
}

func TestHandleGetLeaderboard(t *testing.T) {
	h, fs := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	fs.leaderboard.RecordGameResult("p1", "Alice", true)
	fs.leaderboard.RecordGameResult("p2", "Bob", false)

	h.Handle(c, protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: 10}))

	msg := c.LastOfType(protocol.MsgLeaderboardResult)
	require.NotNil(t, msg)

	var resp struct {
		Entries []storage.LeaderboardEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "p1", resp.Entries[0].PlayerID)
}

func TestHandleReconnect_UnknownToken(t *testing.T) {
	h, _ := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "tmp", Name: "Temp"}

	h.Handle(c, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{Token: "bogus"}))

	errResp := parseAs[protocol.ErrorPayload](t, c.LastOfType(protocol.MsgError))
	assert.Equal(t, protocol.ErrCodeSessionExpired, errResp.Code)
}

func TestHandleReconnect_RestoresIdentity(t *testing.T) {
	h, fs := newTestHandler(t)
	c := &testutil.SimpleClient{ID: "p1", Name: "Alice"}

	// Create a ranked game, fill it with bots and start it
	h.Handle(c, protocol.MustNewMessage(protocol.MsgCreateGame, protocol.CreateGamePayload{Mode: "ranked"}))
	created := parseAs[protocol.GameCreatedPayload](t, c.LastOfType(protocol.MsgGameCreated))

	h.Handle(c, protocol.MustNewMessage(protocol.MsgSelectTeam, protocol.SelectTeamPayload{Team: 1}))
	for range 3 {
		h.Handle(c, protocol.MustNewMessage(protocol.MsgAddBot, protocol.AddBotPayload{}))
	}
	h.Handle(c, protocol.MustNewMessage(protocol.MsgStartGame, nil))
	require.NotNil(t, c.LastOfType(protocol.MsgDealCards), "game should have started")

	// Drop the connection: ranked keeps the seat within the grace window
	fs.rooms.GetRoom(created.GameID).HandleDisconnect("p1")

	// A fresh connection presents the token and inherits the identity
	fresh := &testutil.SimpleClient{ID: "tmp-conn", Name: "访客"}
	h.Handle(fresh, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token: created.ReconnectToken,
	}))

	resp := parseAs[protocol.ReconnectedPayload](t, fresh.LastOfType(protocol.MsgReconnected))
	assert.Equal(t, "p1", resp.PlayerID)
	assert.Equal(t, created.GameID, resp.GameID)
	require.NotNil(t, resp.GameState)
	assert.Len(t, resp.GameState.Hand, 8)

	assert.Equal(t, "p1", fresh.GetID())
	assert.Equal(t, "Alice", fresh.GetName())
	assert.Equal(t, created.GameID, fresh.GetGame())

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Same(t, fresh, fs.rehomed["tmp-conn"].(*testutil.SimpleClient))
}
