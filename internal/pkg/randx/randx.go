/*
Package randx provides functions for generating random identifiers and filler text.

It is primarily used to generate the adjective+animal handles assigned to new
connections, unique session IDs for logging, and the random chat sentences used
by the stress bots.
*/
package randx

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const (
	// HandleMinLen is the shortest generated handle.
	HandleMinLen = 8

	// HandleMaxLen is the longest generated handle.
	HandleMaxLen = 12
)

// NameGenerator produces adjective+animal handles such as "BoldBadger".
//
// It walks every adjective/animal combination before repeating, using a random
// starting offset per run and a shuffled animal-offset table so consecutive
// candidates within one pass over the adjectives share neither adjective nor
// animal; across the boundary between passes the animal may repeat.
// Combinations whose combined length falls outside [HandleMinLen,
// HandleMaxLen] are skipped.
//
// A NameGenerator is not safe for concurrent use; the acceptor owns one and
// calls it from a single goroutine.
type NameGenerator struct {
	adjIdx       int
	adjOffset    int
	animalIdx    int
	animalOffIdx int
	animalOffs   []int
}

// NewNameGenerator creates a NameGenerator with freshly randomized offsets.
func NewNameGenerator() *NameGenerator {
	offs := make([]int, len(animals))
	for i := range offs {
		offs[i] = i
	}
	rand.Shuffle(len(offs), func(i, j int) {
		offs[i], offs[j] = offs[j], offs[i]
	})

	return &NameGenerator{
		adjOffset:  rand.IntN(len(adjectives)),
		animalOffs: offs,
	}
}

// Next returns the next candidate handle.
func (g *NameGenerator) Next() string {
	for {
		adj := adjectives[(g.adjIdx+g.adjOffset)%len(adjectives)]
		animal := animals[(g.animalIdx+g.animalOffs[g.animalOffIdx])%len(animals)]

		g.adjIdx = (g.adjIdx + 1) % len(adjectives)
		g.animalIdx = (g.animalIdx + 1) % len(animals)
		if g.adjIdx == 0 {
			g.animalIdx = 0
			g.animalOffIdx = (g.animalOffIdx + 1) % len(g.animalOffs)
		}

		if n := len(adj) + len(animal); n >= HandleMinLen && n <= HandleMaxLen {
			return adj + animal
		}
	}
}

// SessionID generates a standard UUID v4 string to identify one accepted
// connection in the logs.
func SessionID() string {
	return uuid.New().String()
}

// Sentence returns a random sentence of 2-10 lowercase words, used by the
// stress bots as chat filler.
func Sentence() string {
	var b strings.Builder

	words := 2 + rand.IntN(9)
	for i := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(english[rand.IntN(len(english))])
	}

	return b.String()
}

// Choose returns a random element of the given non-empty slice.
func Choose[T any](items []T) T {
	return items[rand.IntN(len(items))]
}

var adjectives = []string{
	"Able", "Acid", "Aged", "Bold", "Brave", "Brisk", "Calm", "Chill",
	"Clever", "Cosmic", "Crafty", "Daring", "Deft", "Dusty", "Eager",
	"Fancy", "Fierce", "Frosty", "Gentle", "Giddy", "Glad", "Grand",
	"Happy", "Hasty", "Humble", "Jolly", "Keen", "Lively", "Lucky",
	"Mellow", "Mighty", "Nimble", "Noble", "Plucky", "Proud", "Quick",
	"Quiet", "Rapid", "Rusty", "Shiny", "Sly", "Snappy", "Solid",
	"Spry", "Stark", "Sunny", "Swift", "Tidy", "Vivid", "Witty",
}

var animals = []string{
	"Ant", "Badger", "Bat", "Bear", "Beaver", "Bison", "Crab", "Crane",
	"Dingo", "Donkey", "Eagle", "Falcon", "Ferret", "Finch", "Fox",
	"Gecko", "Gibbon", "Goose", "Heron", "Hyena", "Ibex", "Jackal",
	"Koala", "Lemur", "Lizard", "Llama", "Lynx", "Marmot", "Mole",
	"Moose", "Newt", "Otter", "Owl", "Panda", "Pika", "Quokka",
	"Rabbit", "Raven", "Salmon", "Seal", "Shrew", "Sloth", "Stoat",
	"Tapir", "Toad", "Turtle", "Viper", "Walrus", "Weasel", "Wombat",
}

var english = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"hello", "there", "friend", "today", "is", "a", "fine", "day",
	"for", "chatting", "about", "nothing", "much", "at", "all",
	"what", "do", "you", "think", "of", "this", "server", "pretty",
	"neat", "right", "anyway", "back", "to", "work", "soon",
}
