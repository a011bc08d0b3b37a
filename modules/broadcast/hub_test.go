package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstihl01/pokervitoria/metrics"
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

// frame is a decoded envelope with raw data.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// drain returns every frame currently queued for the client.
func drain(t *testing.T, c *Client) []frame {
	t.Helper()
	var frames []frame
	for {
		select {
		case data, ok := <-c.Messages():
			if !ok {
				return frames
			}
			var f frame
			require.NoError(t, json.Unmarshal(data, &f))
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

// groupSize returns the number of clients in a room's broadcast group.
func groupSize(h *Hub, roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub(4, &mockLogger{})

	c := h.Register("c1")
	assert.Same(t, c, h.Register("c1"), "registering twice returns the same client")
	assert.Equal(t, 1, h.ClientCount())

	h.JoinRoom("c1", "r1")
	h.Unregister("c1")
	h.Unregister("c1")

	assert.Equal(t, 0, h.ClientCount())
	assert.Equal(t, 0, groupSize(h, "r1"))
	_, open := <-c.Messages()
	assert.False(t, open, "queue is closed on unregister")
}

func TestHub_BroadcastOnlyReachesGroup(t *testing.T) {
	h := NewHub(4, &mockLogger{})
	a := h.Register("a")
	b := h.Register("b")
	c := h.Register("c")
	h.JoinRoom("a", "r1")
	h.JoinRoom("b", "r1")
	h.JoinRoom("c", "r2")

	n := h.Broadcast("r1", Envelope{Event: "ping", Data: map[string]string{"x": "y"}})

	assert.Equal(t, 2, n)
	assert.Len(t, drain(t, a), 1)
	assert.Len(t, drain(t, b), 1)
	assert.Empty(t, drain(t, c))
}

func TestHub_JoinRoomMovesGroup(t *testing.T) {
	h := NewHub(4, &mockLogger{})
	h.Register("a")
	h.JoinRoom("a", "r1")

	h.JoinRoom("a", "r2")

	assert.Equal(t, "r2", h.RoomOf("a"))
	assert.Equal(t, 0, groupSize(h, "r1"))
	assert.Equal(t, 1, groupSize(h, "r2"))

	h.LeaveRoom("a")
	assert.Equal(t, "", h.RoomOf("a"))
	assert.Equal(t, 0, groupSize(h, "r2"))
}

func TestHub_SendIsPrivate(t *testing.T) {
	h := NewHub(4, &mockLogger{})
	a := h.Register("a")
	b := h.Register("b")
	h.JoinRoom("a", "r1")
	h.JoinRoom("b", "r1")

	assert.True(t, h.Send("a", Envelope{Event: "hello"}))
	assert.False(t, h.Send("missing", Envelope{Event: "hello"}))

	frames := drain(t, a)
	require.Len(t, frames, 1)
	assert.Equal(t, "hello", frames[0].Event)
	assert.Empty(t, drain(t, b))
}

func TestHub_FullQueueDropsWithoutBlocking(t *testing.T) {
	h := NewHub(2, &mockLogger{})
	slow := h.Register("slow")
	fast := h.Register("fast")
	h.JoinRoom("slow", "r1")
	h.JoinRoom("fast", "r1")

	for i := 0; i < 5; i++ {
		h.Broadcast("r1", Envelope{Event: "tick", Data: i})
		drain(t, fast)
	}

	assert.Len(t, drain(t, slow), 2, "only the queue capacity is retained")
	assert.True(t, h.Send("fast", Envelope{Event: "tick"}))
}

func TestHub_Close(t *testing.T) {
	h := NewHub(4, &mockLogger{})
	a := h.Register("a")
	h.JoinRoom("a", "r1")

	h.Close()

	assert.Equal(t, 0, h.ClientCount())
	_, open := <-a.Messages()
	assert.False(t, open)
	h.Unregister("a")
}

func TestHub_ConnectionGauge(t *testing.T) {
	base := testutil.ToFloat64(metrics.Connections)
	h := NewHub(4, &mockLogger{})

	h.Register("a")
	h.Register("a")
	h.Register("b")
	assert.Equal(t, base+2, testutil.ToFloat64(metrics.Connections), "re-registering an id is not a new connection")

	assert.True(t, h.Unregister("a"))
	assert.False(t, h.Unregister("a"))
	assert.Equal(t, base+1, testutil.ToFloat64(metrics.Connections))

	h.Close()
	assert.False(t, h.Unregister("b"), "close already released the client")
	assert.Equal(t, base, testutil.ToFloat64(metrics.Connections))
}
