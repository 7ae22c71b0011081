package api

import (
	"net/http"
	"testing"

	"goentropy/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHub_SubscribeAndLeave(t *testing.T) {
	hub := NewEventHub(nil)
	events, leave := hub.Subscribe()
	assert.Equal(t, 1, hub.ClientCount())

	hub.Publish(EventPool, map[string]any{"bytes_available": 3})
	event := <-events
	assert.Equal(t, EventPool, event.Type)
	assert.Equal(t, 3, event.Data["bytes_available"])
	assert.False(t, event.Timestamp.IsZero())

	leave()
	leave()
	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-events
	assert.False(t, open)
}

func TestEventHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewEventHub(nil)
	events, leave := hub.Subscribe()
	defer leave()

	for i := 0; i < cap(events)+5; i++ {
		hub.Publish(EventPool, map[string]any{"n": i})
	}
	assert.Len(t, events, cap(events))
}

func TestServer_PublishesFeedAndDrawEvents(t *testing.T) {
	s := newTestServer(t, nil)
	events, leave := s.Events().Subscribe()
	defer leave()

	rec := doJSON(t, s, http.MethodPost, "/entropy/feed", FeedRequest{Raw: []int{9, 8, 7}})
	require.Equal(t, http.StatusOK, rec.Code)

	pool := <-events
	assert.Equal(t, EventPool, pool.Type)
	assert.Equal(t, 3, pool.Data["bytes_available"])

	rec = do(s, http.MethodPost, "/lottery/draw", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pool = <-events
	assert.Equal(t, EventPool, pool.Type)
	drawn := <-events
	assert.Equal(t, EventDraw, drawn.Type)
	assert.Len(t, drawn.Data["draw"], 6)
	assert.Equal(t, decode(t, rec)["snapshot_hash"], string(drawn.Data["snapshot_hash"].(core.SnapshotHash)))
}
