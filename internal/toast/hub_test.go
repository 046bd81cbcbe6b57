package toast

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_StreamsToasts(t *testing.T) {
	hub := NewHub(8)
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Deliver(Toast{ID: "t1", Level: LevelSuccess, Title: "Saved to Watch Later"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Toast
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "Saved to Watch Later", got.Title)

	hub.Close()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "closing the hub closes the socket")
}

func TestHub_DropsWhenSubscriberIsSlow(t *testing.T) {
	hub := NewHub(1)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Deliver(Toast{ID: "1"})
	hub.Deliver(Toast{ID: "2"})

	first := <-ch
	assert.Equal(t, "1", first.ID)
	select {
	case extra := <-ch:
		t.Fatalf("expected the second toast to be dropped, got %v", extra)
	default:
	}
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub(1)
	_, unsubscribe := hub.Subscribe()
	assert.Equal(t, 1, hub.Clients())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Clients())

	hub.Close()
	ch, unsubscribeAfterClose := hub.Subscribe()
	_, ok := <-ch
	assert.False(t, ok)
	unsubscribeAfterClose()

	assert.NotPanics(t, func() { hub.Deliver(Toast{ID: "late"}) })
}
