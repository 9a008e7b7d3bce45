package chat

// MainRoom is the room every new session starts in.
const MainRoom = "main"

// MaxMsgLen is the maximum inbound line payload in bytes. Outbound frames get
// extra headroom for the handle prefix and presence decorations.
const (
	MaxMsgLen      = 400
	maxOutboundLen = MaxMsgLen + 100
)

// HelpMsg is the banner sent on connect and on /help.
const HelpMsg = `Welcome to parley!
Commands:
  /help - shows this message
  /name <name> - changes your name
  /join <room> - joins another room
  /rooms - lists all rooms
  /users - lists users in your room
  /quit - disconnects from the server`

// validName reports whether name is a legal handle or room name: 2-20 bytes,
// each an ASCII letter, digit, '-', or '_'.
func validName(name string) bool {
	if len(name) < 2 || len(name) > 20 {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}

	return true
}
