package layout

import (
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/colorgraph/pkg/vector"
)

// Seeder chooses the starting position of the i-th of n nodes on a canvas of
// the given size, centered on the origin.
type Seeder interface {
	Seed(i, n int, width, height float64, rng *rand.Rand) vector.Vec
}

// UniformSeeder places nodes uniformly at random on the canvas.
type UniformSeeder struct{}

func (UniformSeeder) Seed(_, _ int, width, height float64, rng *rand.Rand) vector.Vec {
	return vector.New(
		(rng.Float64()-0.5)*width,
		(rng.Float64()-0.5)*height,
	)
}

// NoiseSeeder places nodes by sampling an OpenSimplex noise field along the
// node index. The same seed always produces the same placement, independent
// of the layout's random source.
type NoiseSeeder struct {
	noise opensimplex.Noise
	// Scale is the distance in noise space between consecutive nodes.
	Scale float64
}

// NewNoiseSeeder returns a NoiseSeeder for the given seed.
func NewNoiseSeeder(seed int64) *NoiseSeeder {
	return &NoiseSeeder{noise: opensimplex.New(seed), Scale: 0.37}
}

func (s *NoiseSeeder) Seed(i, _ int, width, height float64, _ *rand.Rand) vector.Vec {
	t := float64(i) * s.Scale
	x := s.noise.Eval2(t, 0.5)
	y := s.noise.Eval2(t+100, 7.5)
	return vector.New(x*width/2, y*height/2).Clamp(width/2, height/2)
}
