package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidNameBounds(t *testing.T) {
	require.False(t, validName(""))
	require.False(t, validName("a"))
	require.True(t, validName("ab"))
	require.True(t, validName(strings.Repeat("a", 20)))
	require.False(t, validName(strings.Repeat("a", 21)))
}

func TestValidNameCharset(t *testing.T) {
	require.True(t, validName("Bold_Badger-7"))
	require.False(t, validName("has space"))
	require.False(t, validName("sn@ke"))
	require.False(t, validName("héron"))
}

func TestGreetingFitsOutboundLimit(t *testing.T) {
	// banner + "\nYou are " + a maximum-length handle must fit one frame
	greeting := HelpMsg + "\nYou are " + strings.Repeat("a", 20)
	require.LessOrEqual(t, len(greeting), maxOutboundLen)
}

func TestChatLineFitsOutboundLimit(t *testing.T) {
	line := strings.Repeat("a", 20) + ": " + strings.Repeat("b", MaxMsgLen)
	require.LessOrEqual(t, len(line), maxOutboundLen)
}
