package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parley/internal/app/stats"
)

func newTestRooms() *Rooms {
	return NewRooms(stats.NewMetrics())
}

func TestJoinCreatesRoom(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	sub := sender.Subscribe()
	defer sub.Cancel()

	users, ok := rooms.ListUsers("den")
	require.True(t, ok)
	require.Equal(t, []string{"alpha"}, users)
	require.Equal(t, 1, sender.ReceiverCount())
}

func TestLeaveLastSubscriberDestroysRoom(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	sub := sender.Subscribe()

	// The leaving session's own receiver is still registered at check time.
	rooms.Leave("den", "alpha")

	_, ok := rooms.ListUsers("den")
	require.False(t, ok)
	require.Empty(t, rooms.List())

	// Destroying the room closed its remaining subscription.
	_, open := <-sub.Events()
	require.False(t, open)
}

func TestLeaveKeepsInhabitedRoom(t *testing.T) {
	rooms := newTestRooms()

	alphaSender := rooms.Join("den", "alpha")
	alphaSub := alphaSender.Subscribe()

	betaSender := rooms.Join("den", "beta")
	betaSub := betaSender.Subscribe()
	defer betaSub.Cancel()

	rooms.Leave("den", "alpha")
	alphaSub.Cancel()

	users, ok := rooms.ListUsers("den")
	require.True(t, ok)
	require.Equal(t, []string{"beta"}, users)
	require.Equal(t, 1, betaSender.ReceiverCount())
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	rooms := newTestRooms()
	rooms.Leave("nowhere", "alpha")
}

func TestChangeMovesUser(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join(MainRoom, "alpha")
	sub := sender.Subscribe()

	next := rooms.Change(MainRoom, "den", "alpha")
	nextSub := next.Subscribe()
	defer nextSub.Cancel()
	sub.Cancel()

	_, ok := rooms.ListUsers(MainRoom)
	require.False(t, ok)

	users, ok := rooms.ListUsers("den")
	require.True(t, ok)
	require.Equal(t, []string{"alpha"}, users)
}

func TestChangeNameSwapsWithinRoom(t *testing.T) {
	rooms := newTestRooms()

	sender := rooms.Join("den", "alpha")
	sub := sender.Subscribe()
	defer sub.Cancel()

	rooms.ChangeName("den", "alpha", "bob")

	users, ok := rooms.ListUsers("den")
	require.True(t, ok)
	require.Equal(t, []string{"bob"}, users)

	// no-op on a missing room
	rooms.ChangeName("nowhere", "alpha", "bob")
}

func TestListSortsByCountThenName(t *testing.T) {
	rooms := newTestRooms()

	var subs []*Subscription
	subscribe := func(room, user string) {
		s := rooms.Join(room, user).Subscribe()
		subs = append(subs, s)
	}
	defer func() {
		for _, s := range subs {
			s.Cancel()
		}
	}()

	subscribe("zoo", "u1")
	subscribe("zoo", "u2")
	subscribe("bar", "u3")
	subscribe("foo", "u4")

	list := rooms.List()
	require.Equal(t, []RoomInfo{
		{Name: "zoo", Subscribers: 2},
		{Name: "bar", Subscribers: 1},
		{Name: "foo", Subscribers: 1},
	}, list)
}

func TestListUsersSortedAscending(t *testing.T) {
	rooms := newTestRooms()

	s1 := rooms.Join("den", "zeta").Subscribe()
	s2 := rooms.Join("den", "alpha").Subscribe()
	s3 := rooms.Join("den", "mike").Subscribe()
	defer s1.Cancel()
	defer s2.Cancel()
	defer s3.Cancel()

	users, ok := rooms.ListUsers("den")
	require.True(t, ok)
	require.Equal(t, []string{"alpha", "mike", "zeta"}, users)
}

func TestStatsSnapshot(t *testing.T) {
	rooms := newTestRooms()

	s1 := rooms.Join("den", "alpha").Subscribe()
	s2 := rooms.Join("den", "beta").Subscribe()
	defer s1.Cancel()
	defer s2.Cancel()

	snapshot := rooms.Stats()
	require.Len(t, snapshot, 1)
	require.Equal(t, "den", snapshot[0].Name)
	require.Equal(t, 2, snapshot[0].Subscribers)
	require.Equal(t, []string{"alpha", "beta"}, snapshot[0].Users)
}
