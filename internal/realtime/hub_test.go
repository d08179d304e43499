package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: uuid.New(),
		Send:   make(chan []byte, 8),
	}
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestJoinRoomAndFanout(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient()
	b := newTestClient()
	hub.RegisterClient(a)
	hub.RegisterClient(b)

	hub.JoinRoom("project-1", a)
	hub.JoinRoom("project-1", b)
	require.Equal(t, 2, hub.RoomSize("project-1"))

	hub.SendToRoom("project-1", map[string]string{"type": "new_message", "body": "hello"})

	for _, c := range []*Client{a, b} {
		var got map[string]string
		require.NoError(t, json.Unmarshal(recv(t, c), &got))
		require.Equal(t, "new_message", got["type"])
	}
}

func TestSendToRoomSkipsOtherRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient()
	b := newTestClient()
	hub.RegisterClient(a)
	hub.RegisterClient(b)

	hub.JoinRoom("project-1", a)
	hub.JoinRoom("project-2", b)

	hub.SendToRoom("project-1", map[string]string{"type": "new_message"})

	recv(t, a)
	select {
	case <-b.Send:
		t.Fatal("client in another room received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient()
	hub.RegisterClient(a)
	hub.JoinRoom("project-1", a)
	hub.JoinRoom("project-1", a)
	require.Equal(t, 1, hub.RoomSize("project-1"))
}

func TestSendToClient(t *testing.T) {
	hub := NewHub()

	a := newTestClient()
	hub.SendToClient(a, map[string]interface{}{"type": "messages_loaded", "messages": []string{}})

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(recv(t, a), &got))
	require.Equal(t, "messages_loaded", got["type"])
}

func TestUnregisterRemovesFromRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient()
	hub.RegisterClient(a)
	hub.JoinRoom("project-1", a)

	hub.UnregisterClient(a)

	// unregister is async; wait for the room to drain
	require.Eventually(t, func() bool {
		return hub.RoomSize("project-1") == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSendToRoomDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{ID: uuid.New().String(), UserID: uuid.New(), Send: make(chan []byte)}
	hub.RegisterClient(slow)
	hub.JoinRoom("project-1", slow)

	// nobody reads slow.Send; fanout must not block
	done := make(chan struct{})
	go func() {
		hub.SendToRoom("project-1", map[string]string{"type": "new_message"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fanout blocked on a slow client")
	}
}
