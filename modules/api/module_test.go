package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/jstihl01/pokervitoria/domain/room"
	"github.com/jstihl01/pokervitoria/modules/broadcast"
	"github.com/jstihl01/pokervitoria/modules/gateway"
	"github.com/jstihl01/pokervitoria/modules/room"
)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// membershipPort adapts a Membership to RoomPort without the request-reply hop.
type membershipPort struct {
	m *room.Membership
}

func (p membershipPort) CreateRoom(_ context.Context, name string) (domain.Room, error) {
	return p.m.CreateRoom(name)
}

func (p membershipPort) GetRoom(_ context.Context, roomID string) (domain.Room, error) {
	return p.m.GetRoom(roomID)
}

func (p membershipPort) DeleteRoom(_ context.Context, roomID string) error {
	if !p.m.DeleteRoom(roomID) {
		return room.ErrRoomNotFound
	}
	return nil
}

func (p membershipPort) ListRooms(_ context.Context) ([]domain.Summary, error) {
	return p.m.ListRooms(), nil
}

func (p membershipPort) AddPlayer(_ context.Context, roomID, name string) (domain.Summary, domain.Participant, error) {
	return p.m.AdmitWithSummary(roomID, name)
}

func (p membershipPort) ListPlayers(_ context.Context, roomID string) (domain.Summary, []domain.Participant, error) {
	r, err := p.m.GetRoom(roomID)
	if err != nil {
		return domain.Summary{}, nil, err
	}
	return r.Summary(), r.Participants, nil
}

// failingPort fails every call with a transport error.
type failingPort struct{ membershipPort }

func (failingPort) ListRooms(context.Context) ([]domain.Summary, error) {
	return nil, errors.New("nats: timeout")
}

type testEnv struct {
	module     *APIModule
	app        *fiber.App
	membership *room.Membership
	hub        *broadcast.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := &mockLogger{}
	membership := room.NewMembership(room.NewRegistry(), nil)
	hub := broadcast.NewHub(8, logger)
	gw := gateway.New(membership, hub, broadcast.NewPublisher(membership, hub, logger), logger)

	m := NewModule(":0", "*", false, logger)
	m.roomPort = membershipPort{m: membership}
	m.SetHub(hub)
	m.SetGateway(gw)

	return &testEnv{
		module:     m,
		app:        m.newApp(),
		membership: membership,
		hub:        hub,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestNewModule(t *testing.T) {
	m := NewModule(":3000", "*", false, &mockLogger{})

	assert.Equal(t, "api", m.Name())
	assert.Equal(t, []string{"room"}, m.Dependencies())
	assert.Error(t, m.Start(context.Background()), "start without dependencies must fail")
	assert.NoError(t, m.Stop(context.Background()))
	assert.False(t, m.Health(context.Background()).Healthy)
}

func TestCreateAndGetRoom(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/rooms", `{"name":"  Table A "}`)
	require.Equal(t, fiber.StatusCreated, status)
	created := decodeBody[RoomResponse](t, body)
	assert.Equal(t, "Table A", created.Name)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Players)

	status, body = env.do(t, http.MethodGet, "/api/v1/rooms/"+created.ID, "")
	require.Equal(t, fiber.StatusOK, status)
	got := decodeBody[RoomResponse](t, body)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.Players)
}

func TestRoutes_Errors(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.membership.CreateRoom("Lobby")
	require.NoError(t, err)
	_, err = env.membership.Admit(r.ID, "Alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "create room empty name", method: http.MethodPost, path: "/api/v1/rooms", body: `{"name":"  "}`, wantStatus: 400, wantCode: room.CodeValidation},
		{name: "create room bad body", method: http.MethodPost, path: "/api/v1/rooms", body: `{"name":`, wantStatus: 400, wantCode: "invalid_request"},
		{name: "get unknown room", method: http.MethodGet, path: "/api/v1/rooms/missing", wantStatus: 404, wantCode: room.CodeRoomNotFound},
		{name: "delete unknown room", method: http.MethodDelete, path: "/api/v1/rooms/missing", wantStatus: 404, wantCode: room.CodeRoomNotFound},
		{name: "add player short name", method: http.MethodPost, path: "/api/v1/rooms/" + r.ID + "/players", body: `{"name":"A"}`, wantStatus: 400, wantCode: room.CodeValidation},
		{name: "add player duplicate name", method: http.MethodPost, path: "/api/v1/rooms/" + r.ID + "/players", body: `{"name":"alice"}`, wantStatus: 409, wantCode: room.CodeNameTaken},
		{name: "add player unknown room", method: http.MethodPost, path: "/api/v1/rooms/missing/players", body: `{"name":"Bob"}`, wantStatus: 404, wantCode: room.CodeRoomNotFound},
		{name: "list players unknown room", method: http.MethodGet, path: "/api/v1/rooms/missing/players", wantStatus: 404, wantCode: room.CodeRoomNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, decodeBody[ErrorResponse](t, body).Error)
		})
	}

	members, err := env.membership.Members(r.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1, "failed requests must not change membership")
}

func TestAddAndListPlayers(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.membership.CreateRoom("Lobby")
	require.NoError(t, err)

	// A realtime observer in the room must not be pushed REST admits.
	observer := env.hub.Register("observer")
	env.hub.JoinRoom("observer", r.ID)

	for _, name := range []string{"Alice", "Bob"} {
		status, body := env.do(t, http.MethodPost, "/api/v1/rooms/"+r.ID+"/players", `{"name":"`+name+`"}`)
		require.Equal(t, fiber.StatusCreated, status)
		resp := decodeBody[AddPlayerResponse](t, body)
		assert.Equal(t, name, resp.Player.Name)
		assert.Equal(t, r.ID, resp.Room.ID)
	}

	status, body := env.do(t, http.MethodGet, "/api/v1/rooms/"+r.ID+"/players", "")
	require.Equal(t, fiber.StatusOK, status)
	list := decodeBody[PlayerListResponse](t, body)
	assert.Equal(t, 2, list.Room.PlayerCount)
	require.Len(t, list.Players, 2)
	assert.Equal(t, "Alice", list.Players[0].Name)
	assert.Equal(t, "Bob", list.Players[1].Name)

	select {
	case frame := <-observer.Messages():
		t.Fatalf("unexpected push after REST admit: %s", frame)
	default:
	}
}

func TestRequestSizeBounds(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.membership.CreateRoom("Lobby")
	require.NoError(t, err)

	longName := strings.Repeat("n", 200)
	status, body := env.do(t, http.MethodPost, "/api/v1/rooms/"+r.ID+"/players", `{"name":"`+longName+`"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, longName, decodeBody[AddPlayerResponse](t, body).Player.Name)

	status, _ = env.do(t, http.MethodPost, "/api/v1/rooms", `{"name":"`+strings.Repeat("r", maxBodySize)+`"}`)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Len(t, env.membership.ListRooms(), 1)
}

func TestListAndDeleteRooms(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/v1/rooms", "")
	require.Equal(t, fiber.StatusOK, status)
	empty := decodeBody[RoomListResponse](t, body)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Rooms)

	first, err := env.membership.CreateRoom("First")
	require.NoError(t, err)
	_, err = env.membership.CreateRoom("Second")
	require.NoError(t, err)

	_, body = env.do(t, http.MethodGet, "/api/v1/rooms", "")
	list := decodeBody[RoomListResponse](t, body)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "First", list.Rooms[0].Name)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/rooms/"+first.ID, "")
	assert.Equal(t, fiber.StatusNoContent, status)

	_, body = env.do(t, http.MethodGet, "/api/v1/rooms", "")
	assert.Equal(t, 1, decodeBody[RoomListResponse](t, body).Total)
}

func TestInternalErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	env.module.roomPort = failingPort{}

	status, body := env.do(t, http.MethodGet, "/api/v1/rooms", "")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, room.CodeInternal, decodeBody[ErrorResponse](t, body).Error)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.hub.Register("c1")

	status, body := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, status)
	health := decodeBody[HealthResponse](t, body)
	assert.Equal(t, "healthy", health.Status)
	assert.EqualValues(t, 1, health.Details["connected_clients"])
	assert.EqualValues(t, 0, health.Details["bound_sessions"])

	status, body = env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "pokervitoria_ws_connections")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodGet, "/ws", "")

	assert.Equal(t, fiber.StatusUpgradeRequired, status)
}
