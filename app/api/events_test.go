package api

import (
	"testing"

	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/state"
)

func TestHubFanOut(t *testing.T) {
	store := state.New("ru")
	hub := NewHub(store)
	defer hub.Close()

	first, ok := hub.Join()
	if !ok {
		t.Fatal("Expected to join the hub")
	}
	second, _ := hub.Join()

	store.MergeItems([]feed.Item{{Title: "A"}})

	for _, ch := range []chan notification{first, second} {
		select {
		case n := <-ch:
			if n.field != state.FieldFeedItems {
				t.Errorf("Expected field %s, got %s", state.FieldFeedItems, n.field)
			}
			if len(n.snap.Items) != 1 {
				t.Errorf("Expected 1 item in snapshot, got %d", len(n.snap.Items))
			}
		default:
			t.Error("Expected a notification to be delivered")
		}
	}

	if hub.Clients() != 2 {
		t.Errorf("Expected 2 clients, got %d", hub.Clients())
	}
	hub.Leave(first)
	if hub.Clients() != 1 {
		t.Errorf("Expected 1 client after leave, got %d", hub.Clients())
	}
}

func TestHubDoesNotBlockStore(t *testing.T) {
	store := state.New("ru")
	hub := NewHub(store)
	defer hub.Close()

	ch, _ := hub.Join()

	for i := 0; i < clientBuffer*2; i++ {
		store.Visit("A")
	}

	if len(ch) != clientBuffer {
		t.Errorf("Expected %d buffered notifications, got %d", clientBuffer, len(ch))
	}
	if got := len(store.Snapshot().VisitedPosts); got != clientBuffer*2 {
		t.Errorf("Expected %d visits recorded, got %d", clientBuffer*2, got)
	}
}

func TestHubClose(t *testing.T) {
	store := state.New("ru")
	hub := NewHub(store)

	ch, _ := hub.Join()
	hub.Close()

	if _, ok := <-ch; ok {
		t.Error("Expected client channel to be closed")
	}
	if _, ok := hub.Join(); ok {
		t.Error("Expected join to fail after close")
	}

	// detached from the store
	store.SetLang("en")
	hub.Close()
}
