package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedSnapshot(t *testing.T) {
	f := New[int]()
	sub := f.Subscribe()
	defer sub.Cancel()

	f.Publish([]int{1, 2, 3})

	select {
	case got := <-sub.C:
		assert.Equal(t, []int{1, 2, 3}, got)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestPublishLatestWins(t *testing.T) {
	f := New[string]()
	sub := f.Subscribe()
	defer sub.Cancel()

	// Subscriber is not draining; only the newest snapshot should survive.
	f.Publish([]string{"old"})
	f.Publish([]string{"new"})

	select {
	case got := <-sub.C:
		assert.Equal(t, []string{"new"}, got)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	f := New[int]()
	a := f.Subscribe()
	b := f.Subscribe()
	defer a.Cancel()
	defer b.Cancel()

	f.Publish([]int{7})

	for _, sub := range []*Subscription[int]{a, b} {
		select {
		case got := <-sub.C:
			assert.Equal(t, []int{7}, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed snapshot")
		}
	}
}

func TestCancelClosesChannelAndStopsDelivery(t *testing.T) {
	f := New[int]()
	sub := f.Subscribe()
	sub.Cancel()

	_, open := <-sub.C
	require.False(t, open, "channel should be closed after Cancel")

	// Publishing after cancel must not panic.
	f.Publish([]int{1})

	// Cancel is idempotent.
	sub.Cancel()
}
