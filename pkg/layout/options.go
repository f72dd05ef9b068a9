package layout

import (
	"math/rand/v2"
)

// Default simulation tunables.
const (
	DefaultEdgeForce          = 10.0
	DefaultNodeForce          = 20.0
	DefaultCenterForce        = 1.0
	DefaultDegeneration       = 5.0
	DefaultForceModifier      = 2.0
	DefaultMinDistance        = 30.0
	DefaultAccelStopThreshold = 0.1
)

// Options holds the simulation tunables. Zero fields are replaced by the
// package defaults in SetDefaults.
type Options struct {
	EdgeForce          float64 `toml:"edge_force" yaml:"edge_force" json:"edge_force"`
	NodeForce          float64 `toml:"node_force" yaml:"node_force" json:"node_force"`
	CenterForce        float64 `toml:"center_force" yaml:"center_force" json:"center_force"`
	Degeneration       float64 `toml:"degeneration" yaml:"degeneration" json:"degeneration"`
	ForceModifier      float64 `toml:"force_modifier" yaml:"force_modifier" json:"force_modifier"`
	MinDistance        float64 `toml:"min_distance" yaml:"min_distance" json:"min_distance"`
	AccelStopThreshold float64 `toml:"accel_stop_threshold" yaml:"accel_stop_threshold" json:"accel_stop_threshold"`
}

// DefaultOptions returns Options with every tunable at its default.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.EdgeForce == 0 {
		o.EdgeForce = DefaultEdgeForce
	}
	if o.NodeForce == 0 {
		o.NodeForce = DefaultNodeForce
	}
	if o.CenterForce == 0 {
		o.CenterForce = DefaultCenterForce
	}
	if o.Degeneration == 0 {
		o.Degeneration = DefaultDegeneration
	}
	if o.ForceModifier == 0 {
		o.ForceModifier = DefaultForceModifier
	}
	if o.MinDistance == 0 {
		o.MinDistance = DefaultMinDistance
	}
	if o.AccelStopThreshold == 0 {
		o.AccelStopThreshold = DefaultAccelStopThreshold
	}
}

type settings struct {
	width, height float64
	opts          Options
	seeder        Seeder
	rng           *rand.Rand
}

// Option configures a GraphLayout at construction.
type Option func(*settings)

// WithSize sets the initial canvas size.
func WithSize(width, height float64) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithOptions sets the simulation tunables.
func WithOptions(o Options) Option {
	return func(s *settings) { s.opts = o }
}

// WithSeeder sets how Reset places nodes.
func WithSeeder(sd Seeder) Option {
	return func(s *settings) { s.seeder = sd }
}

// WithRand sets the random source used for seeding and for separating
// coincident nodes. Use a fixed seed for reproducible runs.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) { s.rng = r }
}

// WithSeed is WithRand with a PCG source built from seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}
