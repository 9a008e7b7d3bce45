package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameGeneratorLengthBounds(t *testing.T) {
	gen := NewNameGenerator()

	for i := 0; i < 1000; i++ {
		name := gen.Next()
		require.GreaterOrEqual(t, len(name), HandleMinLen, "name %q too short", name)
		require.LessOrEqual(t, len(name), HandleMaxLen, "name %q too long", name)
	}
}

func TestNameGeneratorCharset(t *testing.T) {
	gen := NewNameGenerator()

	for i := 0; i < 100; i++ {
		name := gen.Next()
		for _, c := range name {
			ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
			require.True(t, ok, "name %q contains %q", name, c)
		}
	}
}

func TestNameGeneratorNoEarlyRepeats(t *testing.T) {
	gen := NewNameGenerator()

	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		name := gen.Next()
		_, dup := seen[name]
		require.False(t, dup, "name %q repeated after %d draws", name, i)
		seen[name] = struct{}{}
	}
}

func TestSessionIDUnique(t *testing.T) {
	require.NotEqual(t, SessionID(), SessionID())
}

func TestSentenceShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		words := strings.Fields(Sentence())
		require.GreaterOrEqual(t, len(words), 2)
		require.LessOrEqual(t, len(words), 10)
	}
}
