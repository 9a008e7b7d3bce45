package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastFanOutPreservesOrder(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	subA := sender.Subscribe()
	subB := sender.Subscribe()
	defer subA.Cancel()
	defer subB.Cancel()

	const events = 100
	for i := 0; i < events; i++ {
		sender.Publish(Msg(fmt.Sprintf("msg-%03d", i)))
	}

	for _, sub := range []*Subscription{subA, subB} {
		for i := 0; i < events; i++ {
			ev := <-sub.Events()
			require.Equal(t, EventMsg, ev.Kind)
			require.Equal(t, fmt.Sprintf("msg-%03d", i), ev.Text)
		}
		require.Zero(t, sub.TakeLagged())
	}
}

func TestBroadcastOverflowDropsAndCounts(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	sub := sender.Subscribe()
	defer sub.Cancel()

	const overflow = 50
	for i := 0; i < RoomChannelCapacity+overflow; i++ {
		sender.Publish(Msg(fmt.Sprintf("msg-%04d", i)))
	}

	require.EqualValues(t, overflow, sub.TakeLagged())
	require.Zero(t, sub.TakeLagged(), "lag counter resets on read")

	// The buffered prefix is intact and ordered.
	for i := 0; i < RoomChannelCapacity; i++ {
		ev := <-sub.Events()
		require.Equal(t, fmt.Sprintf("msg-%04d", i), ev.Text)
	}

	// After the gap, delivery resumes with events strictly later in
	// publish order than the last delivered one.
	sender.Publish(Msg("after-gap"))
	ev := <-sub.Events()
	require.Equal(t, "after-gap", ev.Text)
}

func TestBroadcastSlowSubscriberDoesNotAffectPeers(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	slow := sender.Subscribe()
	fast := sender.Subscribe()
	defer slow.Cancel()
	defer fast.Cancel()

	for i := 0; i < RoomChannelCapacity+10; i++ {
		sender.Publish(Msg(fmt.Sprintf("msg-%04d", i)))
		// fast keeps up
		ev := <-fast.Events()
		require.Equal(t, fmt.Sprintf("msg-%04d", i), ev.Text)
	}

	require.Zero(t, fast.TakeLagged())
	require.EqualValues(t, 10, slow.TakeLagged())
}

func TestCancelStopsDelivery(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	keep := sender.Subscribe()
	defer keep.Cancel()

	gone := sender.Subscribe()
	gone.Cancel()
	require.Equal(t, 1, sender.ReceiverCount())

	sender.Publish(Msg("hello"))

	require.Len(t, keep.Events(), 1)
	require.Empty(t, gone.Events())
}

func TestSubscribeAfterDestroyYieldsClosedChannel(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	sub := sender.Subscribe()
	rooms.Leave("den", "alpha")

	_, open := <-sub.Events()
	require.False(t, open)

	// The session still holds the old sender; a late subscribe on the
	// destroyed room signals closure immediately instead of stranding it.
	late := sender.Subscribe()
	_, open = <-late.Events()
	require.False(t, open)

	// Publishing into the destroyed room is a no-op.
	sender.Publish(Msg("void"))
}
