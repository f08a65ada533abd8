// Package namegen generates human-friendly random names for output
// directories, in the form "adjective-noun".
//
// A Generator is an explicit value: construct one at startup and pass it to
// whatever needs fresh names.
//
//	gen := namegen.New()
//	dir := gen.Next() // e.g. "quiet-heron"
package namegen

import (
	"math/rand/v2"
	"sync"
)

var adjectives = []string{
	"amber", "ancient", "autumn", "billowing", "bold", "brave", "brisk", "calm",
	"clever", "cold", "crimson", "curious", "damp", "dark", "dawn", "delicate",
	"dry", "dusty", "eager", "empty", "faded", "fancy", "floral", "fragrant",
	"frosty", "gentle", "golden", "green", "hidden", "holy", "icy", "jolly",
	"late", "lingering", "little", "lively", "long", "lucky", "misty", "morning",
	"muddy", "nameless", "noisy", "old", "patient", "polished", "proud", "purple",
	"quiet", "rapid", "restless", "rough", "round", "shy", "silent", "small",
	"snowy", "solitary", "sparkling", "spring", "still", "summer", "swift", "tight",
	"tiny", "twilight", "wandering", "weathered", "white", "wild", "winter", "wispy",
	"withered", "yellow", "young",
}

var nouns = []string{
	"art", "band", "bar", "base", "bird", "block", "boat", "bonus",
	"bread", "breeze", "brook", "bush", "butterfly", "cake", "cell", "cherry",
	"cloud", "credit", "darkness", "dawn", "dew", "disk", "dream", "dust",
	"feather", "field", "fire", "firefly", "flower", "fog", "forest", "frog",
	"frost", "glade", "glitter", "grass", "hall", "hat", "haze", "heart",
	"heron", "hill", "king", "lab", "lake", "leaf", "limit", "math",
	"meadow", "mode", "moon", "morning", "mountain", "mouse", "mud", "night",
	"otter", "paper", "pine", "poetry", "pond", "queen", "rain", "recipe",
	"resonance", "rice", "river", "salad", "scene", "sea", "shadow", "shape",
	"silence", "sky", "smoke", "snow", "snowflake", "sound", "star", "sun",
	"sunset", "surf", "term", "thunder", "tooth", "tree", "truth", "union",
	"unit", "violet", "voice", "water", "waterfall", "wave", "wildflower", "wind",
	"wood",
}

// Generator produces random "adjective-noun" names. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator seeded from the runtime's random source.
func New() *Generator {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded returns a deterministic Generator. Equal seeds produce equal
// name sequences.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Next returns a new name.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return adjectives[g.rng.IntN(len(adjectives))] + "-" + nouns[g.rng.IntN(len(nouns))]
}
