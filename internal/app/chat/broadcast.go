/*
Package chat contains the core logic of the chat server.

This file implements the bounded broadcast side of a Room: the Sender handle a
session publishes through, and the per-receiver Subscription with its lag
counter. Every subscriber receives every published event in publish order; a
subscriber that falls more than RoomChannelCapacity events behind loses the
overflow and learns how many items were dropped instead of stalling the
producers or its peers.
*/
package chat

import (
	"sync/atomic"
)

// RoomChannelCapacity is the number of events buffered per subscriber before
// new events are dropped for that subscriber.
const RoomChannelCapacity = 1024

// Sender publishes events into a room and creates subscriptions on it. It is
// a cheap value handle; all sessions in a room hold their own copy.
type Sender struct {
	room *Room
}

// Publish delivers ev to every current subscriber of the room. Publishing to
// a room that was destroyed is a no-op.
func (s Sender) Publish(ev RoomEvent) {
	s.room.publish(ev)
}

// Subscribe registers a new receiver on the room and returns it. Subscribing
// to a destroyed room yields a subscription whose channel is already closed,
// which the session loop treats as a signal to fall back to the main room.
func (s Sender) Subscribe() *Subscription {
	return s.room.subscribe()
}

// ReceiverCount returns the number of current subscribers.
func (s Sender) ReceiverCount() int {
	return s.room.subscriberCount()
}

// Subscription is one receiver on a room's broadcast channel.
type Subscription struct {
	room   *Room
	events chan RoomEvent
	lagged atomic.Uint64
}

// Events returns the receive side of the subscription. The channel is closed
// when the room is destroyed.
func (s *Subscription) Events() <-chan RoomEvent {
	return s.events
}

// TakeLagged returns the number of events dropped for this subscriber since
// the previous call, resetting the counter.
func (s *Subscription) TakeLagged() uint64 {
	return s.lagged.Swap(0)
}

// Cancel detaches the subscription from its room. Safe to call on a
// subscription whose room is already gone.
func (s *Subscription) Cancel() {
	s.room.unsubscribe(s)
}
