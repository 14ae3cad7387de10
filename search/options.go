// Package search implements the beam-search driver shared by parsing,
// generation, and continuation projection.
package search

import "math"

// Config is the assembled search configuration, built through Options.
type Config struct {
	MaxSteps   int
	NBeams     int
	MaxStrings int
	MinLogProb float64
	MoveProb   float64
}

// Option configures a Config, mirroring nihei9-vartan's
// driver.ParserOption functional-options pattern.
type Option func(*Config)

// WithMaxSteps caps derivation length. A non-positive value means
// unbounded.
func WithMaxSteps(n int) Option {
	return func(c *Config) { c.MaxSteps = n }
}

// WithNBeams truncates the frontier to the top-n states after each
// expansion wave. A non-positive value means unbounded.
func WithNBeams(n int) Option {
	return func(c *Config) { c.NBeams = n }
}

// WithMaxStrings stops generation after n accepted surface strings. A
// non-positive value means unbounded.
func WithMaxStrings(n int) Option {
	return func(c *Config) { c.MaxStrings = n }
}

// WithMinLogProb discards states scoring below p.
func WithMinLogProb(p float64) Option {
	return func(c *Config) { c.MinLogProb = p }
}

// WithMoveProb sets the weight split between move and merge steps.
// Default 0.5.
func WithMoveProb(p float64) Option {
	return func(c *Config) { c.MoveProb = p }
}

// NewConfig assembles a Config from defaults plus the given options.
func NewConfig(opts ...Option) Config {
	c := Config{
		MaxSteps:   math.MaxInt32,
		NBeams:     math.MaxInt32,
		MaxStrings: math.MaxInt32,
		MinLogProb: math.Inf(-1),
		MoveProb:   0.5,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c Config) boundedSteps() bool   { return c.MaxSteps > 0 && c.MaxSteps < math.MaxInt32 }
func (c Config) boundedBeams() bool   { return c.NBeams > 0 && c.NBeams < math.MaxInt32 }
func (c Config) boundedStrings() bool { return c.MaxStrings > 0 && c.MaxStrings < math.MaxInt32 }
