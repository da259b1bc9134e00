package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/app/orch"
	"github.com/dkeye/Presence/internal/config"
	"github.com/dkeye/Presence/internal/core"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinedData struct {
	User    core.MemberDTO   `json:"user"`
	RoomID  string           `json:"roomId"`
	Members []core.MemberDTO `json:"members"`
}

func testConfig() *config.Config {
	return &config.Config{
		Mode:           "test",
		Port:           3001,
		ReadLimit:      32768,
		PingPeriod:     54 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      5 * time.Second,
		SendBuffer:     32,
		Secret:         "test-secret-test-secret-test-sec",
		AllowedOrigins: []string{"*"},
		Backpressure:   "drop",
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomDirectory(),
		Members:  app.NewMembershipStore(),
		Policy:   app.SimplePolicy{Action: app.DropFrame},
	}
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o))
	t.Cleanup(srv.Close)
	return srv, o
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": data}))
}

func next(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func decodeJoined(t *testing.T, ev wireEvent) joinedData {
	t.Helper()
	require.Equal(t, orch.EventRoomJoined, ev.Event)
	var d joinedData
	require.NoError(t, json.Unmarshal(ev.Data, &d))
	return d
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestSignal_CreateJoinNotFound(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	a, b, c := dial(t, srv), dial(t, srv), dial(t, srv)

	emit(t, a, orch.EventCreateRoom, map[string]string{"roomId": "r1", "username": "alice"})
	aJoined := decodeJoined(t, next(t, a))
	assert.Equal(t, "r1", aJoined.RoomID)
	assert.Equal(t, "alice", aJoined.User.Username)
	assert.Equal(t, []core.MemberDTO{aJoined.User}, aJoined.Members)

	emit(t, b, orch.EventJoinRoom, map[string]string{"roomId": "r1", "username": "bob"})
	bJoined := decodeJoined(t, next(t, b))
	assert.Equal(t, []core.MemberDTO{aJoined.User, bJoined.User}, bJoined.Members)
	assert.NotEqual(t, aJoined.User.ID, bJoined.User.ID)

	emit(t, c, orch.EventJoinRoom, map[string]string{"roomId": "r2", "username": "carol"})
	ev := next(t, c)
	assert.Equal(t, orch.EventRoomNotFound, ev.Event)
	assert.JSONEq(t, `{"message":"`+orch.MsgRoomNotFound+`"}`, string(ev.Data))
}

func TestSignal_InvalidDataKeepsConnection(t *testing.T) {
	srv, o := newTestServer(t, testConfig())
	a := dial(t, srv)

	emit(t, a, orch.EventCreateRoom, map[string]any{"roomId": "", "username": "alice"})
	ev := next(t, a)
	assert.Equal(t, orch.EventInvalidData, ev.Event)
	assert.JSONEq(t, `{"message":"`+orch.MsgInvalidData+`"}`, string(ev.Data))

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))
	emit(t, a, "no-such-event", nil)
	emit(t, a, "ping", nil)
	assert.Equal(t, "pong", next(t, a).Event)
	assert.Empty(t, o.ListRooms())
}

func TestSignal_LeaveAndDisconnect(t *testing.T) {
	srv, o := newTestServer(t, testConfig())
	a, b := dial(t, srv), dial(t, srv)

	emit(t, a, orch.EventCreateRoom, map[string]string{"roomId": "r1", "username": "alice"})
	decodeJoined(t, next(t, a))
	emit(t, b, orch.EventJoinRoom, map[string]string{"roomId": "r1", "username": "bob"})
	bJoined := decodeJoined(t, next(t, b))

	emit(t, a, orch.EventLeaveRoom, "r1")
	emit(t, a, orch.EventLeaveRoom, "r1")
	emit(t, a, orch.EventWhoAmI, nil)
	who := next(t, a)
	require.Equal(t, orch.EventWhoAmI, who.Event)
	assert.NotContains(t, string(who.Data), "roomId")

	members, ok := o.RoomMembers("r1")
	require.True(t, ok)
	assert.Equal(t, []core.MemberDTO{bJoined.User}, members)

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool {
		return len(o.ListRooms()) == 0 && o.Registry.Count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestREST_Roster(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	a := dial(t, srv)
	emit(t, a, orch.EventCreateRoom, map[string]string{"roomId": "r1", "username": "alice"})
	joined := decodeJoined(t, next(t, a))

	var rooms struct {
		Rooms []struct {
			RoomID      string `json:"roomId"`
			MemberCount int    `json:"memberCount"`
		} `json:"rooms"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/rooms", &rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "r1", rooms.Rooms[0].RoomID)
	assert.Equal(t, 1, rooms.Rooms[0].MemberCount)

	var roster struct {
		RoomID  string           `json:"roomId"`
		Members []core.MemberDTO `json:"members"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/rooms/r1/members", &roster))
	assert.Equal(t, joined.Members, roster.Members)

	var notFound map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/rooms/zzz/members", &notFound))
	assert.Equal(t, "room not found", notFound["error"])

	var health map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 1, health["connections"])
}

func TestREST_ClientTokenCookie(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "PresenceSessions" {
			found = true
		}
	}
	assert.True(t, found, "session cookie must be issued")
}

func TestSignal_OriginPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"http://allowed.example"}
	srv, _ := newTestServer(t, cfg)

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "HTTP://Allowed.Example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	_ = conn.Close()
}
