/*
Package chat contains the core logic of the chat server.

This file defines the Room entity and the Rooms directory. A room exists in
the directory exactly as long as it has at least one subscriber: the first
join creates it, and the departure of the last inhabitant destroys it. The
destroy check runs while the leaving session's own receiver is still counted,
so a room with a remaining inhabitant can never be torn down; any concurrent
joiner has already registered its own subscription by the time it could be
affected.
*/
package chat

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"parley/internal/app/stats"
	"parley/internal/pkg/logx"
)

// Room is a named broadcast group: the set of handles present plus the
// subscriber list of its broadcast channel.
type Room struct {
	name string

	mu     sync.Mutex
	users  map[string]struct{}
	subs   map[*Subscription]struct{}
	closed bool

	metrics *stats.Metrics
}

func newRoom(name string, metrics *stats.Metrics) *Room {
	return &Room{
		name:    name,
		users:   make(map[string]struct{}, 8),
		subs:    make(map[*Subscription]struct{}, 8),
		metrics: metrics,
	}
}

// publish fans ev out to every subscriber. A subscriber whose buffer is full
// loses the event and has its lag counter bumped instead; a slow reader never
// blocks the publisher or its peers.
func (r *Room) publish(ev RoomEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.metrics.EventsTotal.Inc()

	for sub := range r.subs {
		select {
		case sub.events <- ev:
		default:
			sub.lagged.Add(1)
			r.metrics.DroppedTotal.Inc()
		}
	}
}

func (r *Room) subscribe() *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := &Subscription{
		room:   r,
		events: make(chan RoomEvent, RoomChannelCapacity),
	}

	if r.closed {
		close(sub.events)
		return sub
	}

	r.subs[sub] = struct{}{}
	return sub
}

func (r *Room) unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	delete(r.subs, sub)
}

func (r *Room) subscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs)
}

func (r *Room) addUser(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[name] = struct{}{}
}

func (r *Room) removeUser(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, name)
}

func (r *Room) renameUser(prev, next string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, prev)
	r.users[next] = struct{}{}
}

func (r *Room) userList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]string, 0, len(r.users))
	for name := range r.users {
		users = append(users, name)
	}
	sort.Strings(users)
	return users
}

// close marks the room dead and closes every remaining subscription channel.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for sub := range r.subs {
		close(sub.events)
		delete(r.subs, sub)
	}
}

// RoomInfo is one entry of a directory listing.
type RoomInfo struct {
	// Name is the room name.
	Name string

	// Subscribers is the room's subscriber count at snapshot time.
	Subscribers int
}

// Rooms is the process-wide directory mapping room names to rooms. All
// operations are safe for concurrent use.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	metrics *stats.Metrics
	logger  zerolog.Logger
}

// NewRooms returns an empty directory reporting into the given metrics.
func NewRooms(metrics *stats.Metrics) *Rooms {
	return &Rooms{
		rooms:   make(map[string]*Room, 8),
		metrics: metrics,
		logger:  logx.Logger().With().Str("component", "Rooms").Logger(),
	}
}

// Join locates or creates the named room, records the user as present, and
// returns a sender handle on the room's broadcast channel.
func (rs *Rooms) Join(roomName, userName string) Sender {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	room, ok := rs.rooms[roomName]
	if !ok {
		room = newRoom(roomName, rs.metrics)
		rs.rooms[roomName] = room
		rs.logger.Debug().Str("room", roomName).Msg("Room created.")
	}

	room.addUser(userName)
	return Sender{room: room}
}

// Leave removes the user from the named room. When the room's subscriber
// count has dropped to one or less, only the leaving session's own receiver
// remains, so the room is removed from the directory and its channel closed.
// Leaving a room that no longer exists is a no-op.
func (rs *Rooms) Leave(roomName, userName string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	room, ok := rs.rooms[roomName]
	if !ok {
		return
	}

	room.removeUser(userName)

	if room.subscriberCount() <= 1 {
		delete(rs.rooms, roomName)
		room.close()
		rs.logger.Debug().Str("room", roomName).Msg("Room destroyed.")
	}
}

// Change moves the user from the previous room to the next one and returns a
// sender for the next room. The two steps are not atomic; a moment with
// neither membership is observable.
func (rs *Rooms) Change(prevRoom, nextRoom, userName string) Sender {
	rs.Leave(prevRoom, userName)
	return rs.Join(nextRoom, userName)
}

// ChangeName swaps the user's handle within the named room. A no-op if the
// room is gone.
func (rs *Rooms) ChangeName(roomName, prevName, newName string) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if room, ok := rs.rooms[roomName]; ok {
		room.renameUser(prevName, newName)
	}
}

// List returns a snapshot of all rooms, sorted by subscriber count descending
// and then by name ascending.
func (rs *Rooms) List() []RoomInfo {
	rs.mu.RLock()

	list := make([]RoomInfo, 0, len(rs.rooms))
	for name, room := range rs.rooms {
		list = append(list, RoomInfo{Name: name, Subscribers: room.subscriberCount()})
	}

	rs.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Subscribers != list[j].Subscribers {
			return list[i].Subscribers > list[j].Subscribers
		}
		return list[i].Name < list[j].Name
	})

	return list
}

// ListUsers returns the named room's users sorted ascending, or false if the
// room is gone.
func (rs *Rooms) ListUsers(roomName string) ([]string, bool) {
	rs.mu.RLock()
	room, ok := rs.rooms[roomName]
	rs.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return room.userList(), true
}

// Stats returns the room snapshot served on the internal stats endpoint.
func (rs *Rooms) Stats() []stats.RoomStat {
	list := rs.List()

	out := make([]stats.RoomStat, 0, len(list))
	for _, info := range list {
		users, ok := rs.ListUsers(info.Name)
		if !ok {
			continue
		}
		out = append(out, stats.RoomStat{
			Name:        info.Name,
			Subscribers: info.Subscribers,
			Users:       users,
		})
	}

	return out
}
