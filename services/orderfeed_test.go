package services

import (
	"testing"
	"time"

	"bayorder-backend/models"
)

func TestOrderFeedDelivers(t *testing.T) {
	feed := NewOrderFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	snapshot := []models.Order{{CustomerName: "Alice"}}
	feed.Broadcast(snapshot)

	select {
	case got := <-ch:
		if len(got) != 1 || got[0].CustomerName != "Alice" {
			t.Errorf("received %+v, want the broadcast snapshot", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestOrderFeedSlowSubscriberGetsNewest(t *testing.T) {
	feed := NewOrderFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	feed.Broadcast([]models.Order{{CustomerName: "stale"}})
	feed.Broadcast([]models.Order{{CustomerName: "fresh"}})

	select {
	case got := <-ch:
		if got[0].CustomerName != "fresh" {
			t.Errorf("received %q, want the newest snapshot", got[0].CustomerName)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestOrderFeedCancel(t *testing.T) {
	feed := NewOrderFeed()
	ch, cancel := feed.Subscribe()

	if feed.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", feed.Subscribers())
	}

	cancel()
	cancel() // safe to call twice

	if feed.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0 after cancel", feed.Subscribers())
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}

	// Broadcasting after cancel must not panic or deliver.
	feed.Broadcast([]models.Order{{CustomerName: "late"}})
}

func TestOrderFeedMultipleSubscribers(t *testing.T) {
	feed := NewOrderFeed()

	ch1, cancel1 := feed.Subscribe()
	ch2, cancel2 := feed.Subscribe()
	defer cancel1()
	defer cancel2()

	feed.Broadcast([]models.Order{{CustomerName: "Bob"}})

	for i, ch := range []<-chan []models.Order{ch1, ch2} {
		select {
		case got := <-ch:
			if got[0].CustomerName != "Bob" {
				t.Errorf("subscriber %d received %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}
