package core

import (
	"context"
	"testing"
	"time"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// joinUser registers the client, sends a join command, and waits for
// the history event confirming the hub processed it.
func joinUser(t *testing.T, hub *Hub, c *Client, username, room string) {
	t.Helper()

	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, Username: username, Room: room}
	mustEvent(t, c.Events, EventHistory)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustNoEvent fails if an event of the given kind arrives within the
// grace window.
func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
