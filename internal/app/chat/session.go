/*
Package chat contains the core logic of the chat server.

This file defines the Session, the task owning one accepted TCP connection.
A session greets the client, joins the main room, and then runs a select loop
over two inputs: the next framed line from the client and the next event from
its room subscription. It tears down by announcing its departure, leaving the
room, and releasing its handle.
*/
package chat

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"parley/internal/app/stats"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/lineproto"
	"parley/internal/pkg/logx"
	"parley/internal/pkg/randx"
)

// Session owns one accepted connection and its state: the framed reader and
// writer, the current handle, the current room, and the subscription on that
// room's broadcast channel.
type Session struct {
	conn   net.Conn
	reader *lineproto.Reader
	writer *lineproto.Writer

	names   *Names
	rooms   *Rooms
	metrics *stats.Metrics

	name     string
	roomName string
	sender   Sender
	sub      *Subscription

	logger zerolog.Logger
}

// readResult is one outcome of the framed reader: a line or an error.
type readResult struct {
	line string
	err  error
}

// NewSession builds a session for an accepted connection whose handle was
// already reserved in the registry.
func NewSession(conn net.Conn, name string, names *Names, rooms *Rooms, metrics *stats.Metrics) *Session {
	logger := logx.Logger().With().
		Str("component", "Session").
		Str("session_id", randx.SessionID()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	return &Session{
		conn:    conn,
		reader:  lineproto.NewReader(conn, MaxMsgLen),
		writer:  lineproto.NewWriter(conn, maxOutboundLen),
		names:   names,
		rooms:   rooms,
		metrics: metrics,
		name:    name,
		logger:  logger,
	}
}

// Run executes the session from greeting to cleanup. It blocks until the
// client disconnects, quits, or the transport fails.
func (s *Session) Run() {
	s.metrics.SessionsActive.Inc()
	defer s.metrics.SessionsActive.Dec()

	defer s.conn.Close()

	// The greeting is one frame: the banner and the handle assignment,
	// separated by an embedded newline.
	if err := s.writer.WriteLine(HelpMsg + "\nYou are " + s.name); err != nil {
		s.names.Remove(s.name)
		s.finish(err)
		return
	}

	s.roomName = MainRoom
	s.sender = s.rooms.Join(MainRoom, s.name)
	s.sub = s.sender.Subscribe()
	s.sender.Publish(Joined(s.name))

	err := s.loop()

	s.sender.Publish(Left(s.name))
	s.rooms.Leave(s.roomName, s.name)
	s.sub.Cancel()
	s.names.Remove(s.name)

	s.finish(err)
}

// finish logs the session's ending. Peer-induced transport errors end a
// session silently; anything else is unexpected and logged.
func (s *Session) finish(err error) {
	if err != nil && !errs.IsDisconnect(err) {
		s.logger.Error().Err(err).Str("handle", s.name).Msg("Session ended with unexpected error.")
		return
	}
	s.logger.Debug().Str("handle", s.name).Msg("Session disconnected.")
}

// loop is the Active state: one iteration handles exactly one inbound line or
// one room event. It returns nil for a clean ending and an error otherwise.
func (s *Session) loop() error {
	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go s.readLines(lines, done)

	for {
		select {
		case res := <-lines:
			if res.err != nil {
				if errors.Is(res.err, lineproto.ErrLineTooLong) {
					if err := s.writer.WriteLine(fmt.Sprintf("Messages can only be %d chars long", MaxMsgLen)); err != nil {
						return err
					}
					continue
				}
				if errs.IsDisconnect(res.err) {
					return nil
				}
				return res.err
			}

			quit, err := s.dispatch(res.line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case ev, ok := <-s.sub.Events():
			if !ok {
				s.recoverSubscription()
				continue
			}

			if n := s.sub.TakeLagged(); n > 0 {
				s.logger.Warn().
					Uint64("dropped", n).
					Str("room", s.roomName).
					Int("subscribers", s.sender.ReceiverCount()).
					Msg("Subscriber lagged; events dropped.")

				if err := s.writer.WriteLine(fmt.Sprintf("Server is very busy and dropped %d messages, sorry!", n)); err != nil {
					return err
				}
			}

			if err := s.deliver(ev); err != nil {
				return err
			}
		}
	}
}

// readLines pumps the framed reader into the select loop until the reader
// fails terminally or the session ends.
func (s *Session) readLines(out chan<- readResult, done <-chan struct{}) {
	for {
		line, err := s.reader.ReadLine()

		select {
		case out <- readResult{line: line, err: err}:
		case <-done:
			return
		}

		// An oversize line is survivable; everything else ends the stream.
		if err != nil && !errors.Is(err, lineproto.ErrLineTooLong) {
			return
		}
	}
}

// deliver writes one room event to the client, personalizing presence events.
func (s *Session) deliver(ev RoomEvent) error {
	var line string

	switch ev.Kind {
	case EventJoined:
		if ev.Name == s.name {
			line = "You joined " + s.roomName
		} else {
			line = ev.Name + " joined"
		}
	case EventLeft:
		if ev.Name == s.name {
			line = "You left " + s.roomName
		} else {
			line = ev.Name + " left"
		}
	case EventMsg:
		line = ev.Text
	}

	return s.writer.WriteLine(line)
}

// recoverSubscription handles a closed receiver, which can only happen when
// the session's room was destroyed underneath it. The session falls back to
// the main room.
func (s *Session) recoverSubscription() {
	s.logger.Warn().Str("room", s.roomName).Msg("Room channel closed underneath session; rejoining main.")

	s.sender.Publish(Left(s.name))
	s.sender = s.rooms.Change(s.roomName, MainRoom, s.name)

	oldSub := s.sub
	s.sub = s.sender.Subscribe()
	oldSub.Cancel()

	s.roomName = MainRoom
	s.sender.Publish(Joined(s.name))
}

// dispatch interprets one inbound line: a slash command or a chat message.
// It reports whether the client asked to quit.
func (s *Session) dispatch(line string) (quit bool, err error) {
	if !strings.HasPrefix(line, "/") {
		s.sender.Publish(Msg(s.name + ": " + line))
		return false, nil
	}

	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "/help":
		return false, s.writer.WriteLine(HelpMsg)

	case "/name":
		return false, s.handleName(arg(fields))

	case "/join":
		return false, s.handleJoin(arg(fields))

	case "/rooms":
		return false, s.handleRooms()

	case "/users":
		return false, s.handleUsers()

	case "/quit":
		return true, nil

	default:
		return false, s.writer.WriteLine("Unrecognized command " + cmd + ", try /help")
	}
}

// arg returns the first argument token of a command, or "" when absent.
func arg(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// handleName renames the session. The new handle is reserved first; only then
// is the room membership updated, the rename announced, and the old handle
// released.
func (s *Session) handleName(newName string) error {
	if !validName(newName) {
		return s.writer.WriteLine("Name must be 2 - 20 alphanumeric chars")
	}

	if !s.names.TryInsert(newName) {
		return s.writer.WriteLine(newName + " is already taken")
	}

	s.rooms.ChangeName(s.roomName, s.name, newName)

	oldName := s.name
	s.sender.Publish(Msg(oldName + " is now " + newName))
	s.name = newName
	s.names.Remove(oldName)

	return nil
}

// handleJoin switches the session to another room.
func (s *Session) handleJoin(newRoom string) error {
	if !validName(newRoom) {
		return s.writer.WriteLine("Room must be 2 - 20 alphanumeric chars")
	}

	if newRoom == s.roomName {
		return s.writer.WriteLine("You are in " + s.roomName)
	}

	prevRoom := s.roomName

	// Peers in the old room learn of the departure through the old channel;
	// this session abandons that channel below, so it is told directly.
	s.sender.Publish(Left(s.name))
	s.sender = s.rooms.Change(prevRoom, newRoom, s.name)

	oldSub := s.sub
	s.sub = s.sender.Subscribe()
	oldSub.Cancel()

	s.roomName = newRoom

	if err := s.writer.WriteLine("You left " + prevRoom); err != nil {
		return err
	}

	s.sender.Publish(Joined(s.name))

	return nil
}

// handleRooms writes the room listing: count descending, name ascending.
func (s *Session) handleRooms() error {
	list := s.rooms.List()

	var b strings.Builder
	b.WriteString("Rooms - ")
	for i, info := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%d)", info.Name, info.Subscribers)
	}

	return s.writer.WriteLine(b.String())
}

// handleUsers writes the current room's user listing, sorted ascending. If
// the room vanished underneath the session, it lists only the session itself.
func (s *Session) handleUsers() error {
	users, ok := s.rooms.ListUsers(s.roomName)
	if !ok {
		users = []string{s.name}
	}

	return s.writer.WriteLine("Users - " + strings.Join(users, ", "))
}
