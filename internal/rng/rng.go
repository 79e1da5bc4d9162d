package rng

import (
	"math/rand"
	"time"
)

// Rand is the randomness surface the game engines consume. Tests substitute
// scripted implementations to force outcomes.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Source is a seedable Rand backed by math/rand.
type Source struct {
	random *rand.Rand
}

// Config for the randomness source.
type Config struct {
	// Optional seed for testing.
	Seed int64
}

// New creates a randomness source. A zero or absent seed falls back to the
// current time.
func New(cfg *Config) *Source {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Source{
		random: rand.New(rand.NewSource(seed)),
	}
}

func (s *Source) Intn(n int) int {
	return s.random.Intn(n)
}

func (s *Source) Float64() float64 {
	return s.random.Float64()
}
