package progress

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
)

func TestHubRegisterAndBroadcastDeliversToSameJobClientOnly(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	watcherA := &Client{hub: hub, id: "a", jobID: "job-1", send: make(chan observability.Event, sendBufferSize)}
	watcherB := &Client{hub: hub, id: "b", jobID: "job-2", send: make(chan observability.Event, sendBufferSize)}
	hub.register <- watcherA
	hub.register <- watcherB
	time.Sleep(10 * time.Millisecond)

	hub.Observer("job-1").OnEvent(observability.Event{Kind: observability.GenerationStarted})
	time.Sleep(10 * time.Millisecond)

	select {
	case e := <-watcherA.send:
		assert.Equal(t, observability.GenerationStarted, e.Kind)
	default:
		t.Fatal("expected watcherA to receive the job-1 event")
	}
	select {
	case <-watcherB.send:
		t.Fatal("watcherB should not receive a job-1 event")
	default:
	}
}

func TestHubUnregisterRemovesClientFromJobIndex(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	c := &Client{hub: hub, id: "a", jobID: "job-1", send: make(chan observability.Event, sendBufferSize)}
	hub.register <- c
	time.Sleep(10 * time.Millisecond)
	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	_, ok := hub.byJobID["job-1"]
	hub.mu.RUnlock()
	assert.False(t, ok)
}
