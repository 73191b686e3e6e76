package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe-service/internal/models"
)

func TestHubAddAndRemoveChatClient(t *testing.T) {
	hub := NewHub()

	hub.AddChatClient("c1", nil, ConnInfo{})
	if len(hub.rooms) != 1 {
		t.Fatalf("expected chat room to be created")
	}

	hub.RemoveChatClient("c1", nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected chat room to be removed")
	}
}

func TestBroadcastWithoutViewers(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.BroadcastChatMessage("nobody", models.Message{ID: "m1"}))
}

func TestSeenSetEvictsOldest(t *testing.T) {
	s := newSeenSet()

	assert.True(t, s.add("m0"))
	assert.False(t, s.add("m0"))
	for i := 1; i <= seenCapacity; i++ {
		s.add(fmt.Sprintf("m%d", i))
	}
	assert.True(t, s.add("m0"), "oldest id should have been evicted")
	assert.Len(t, s.ids, seenCapacity)
}

func TestBroadcastDeliversOncePerMessage(t *testing.T) {
	hub := NewHub()
	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.AddChatClient("c1", conn, ConnInfo{ConnID: "test"})
		close(registered)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()
	<-registered

	msg := models.Message{ID: "m1", ChatID: "c1", Content: "hola"}
	assert.True(t, hub.BroadcastChatMessage("c1", msg))
	assert.False(t, hub.BroadcastChatMessage("c1", msg))
	assert.True(t, hub.BroadcastChatMessage("c1", models.Message{ID: "m2", ChatID: "c1", Content: "chau"}))

	var got []string
	for i := 0; i < 2; i++ {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		var event models.ChatEvent
		require.NoError(t, json.Unmarshal(data, &event))
		got = append(got, event.Message.ID)
	}
	assert.Equal(t, []string{"m1", "m2"}, got)
}
