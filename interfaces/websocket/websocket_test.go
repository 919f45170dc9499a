package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RithishKumarK/supreme/application/services"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/domain/events"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	manager     *services.SessionManager
	hub         *Hub
	broadcaster *Broadcaster
	server      *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	opts := services.DefaultSessionOptions()
	opts.Latency = 0
	manager := services.NewSessionManager(domainservices.NewFixedInterpreter(), domainservices.NewCodeGenerator(), opts, 0, nil, logger)

	hub := NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	wsServer := NewServer(hub, manager, nil, pkgerrors.NewErrorHandler(logger), logger)
	r := chi.NewRouter()
	r.Get("/ws/sessions/{sessionID}", wsServer.HandleWebSocket)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &fixture{
		manager:     manager,
		hub:         hub,
		broadcaster: NewBroadcaster(hub, logger),
		server:      server,
	}
}

func (f *fixture) dial(t *testing.T, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/sessions/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServer_StreamsSessionChanges(t *testing.T) {
	f := newFixture(t)
	session, err := f.manager.Create()
	require.NoError(t, err)
	f.broadcaster.Attach(session)

	conn := f.dial(t, session.ID())

	greeting := readMessage(t, conn)
	assert.Equal(t, TypeConnectionEstablished, greeting.Type)
	assert.Equal(t, session.ID(), greeting.SessionID)
	var g struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(greeting.Data, &g))
	assert.Equal(t, session.Version(), g.Version)

	// wait until the hub has registered the client
	require.Eventually(t, func() bool {
		return f.hub.GetConnectionCount(session.ID()) == 1
	}, time.Second, 5*time.Millisecond)

	_, err = session.AddNode(context.Background(), valueobjects.NodeKindDatabase, "Users", valueobjects.Position{})
	require.NoError(t, err)

	msg := readMessage(t, conn)
	assert.Equal(t, events.TypeNodeAdded, msg.Type)
	assert.Contains(t, string(msg.Data), `"Users"`)
}

func TestServer_UnknownSession(t *testing.T) {
	f := newFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/sessions/missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestBroadcaster_DetachClosesClients(t *testing.T) {
	f := newFixture(t)
	session, err := f.manager.Create()
	require.NoError(t, err)
	f.broadcaster.Attach(session)

	conn := f.dial(t, session.ID())
	readMessage(t, conn)
	require.Eventually(t, func() bool {
		return f.hub.GetConnectionCount(session.ID()) == 1
	}, time.Second, 5*time.Millisecond)

	f.broadcaster.Detach(session.ID())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool {
		return f.hub.GetConnectionCount(session.ID()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestHub_SendWithoutClientsIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	assert.NoError(t, hub.Send("nobody", "node.added", map[string]string{"id": "n1"}))
	assert.Equal(t, 0, hub.GetConnectionCount("nobody"))
}
