package simulation

import (
	crand "crypto/rand"
	"math"
	"math/big"
	"math/rand"

	"golang.org/x/xerrors"
)

// Sampler draws independent values from [0, 1).
type Sampler interface {
	Next() float64
	// Reseed restarts the stream from seed.
	Reseed(seed int64)
}

// UniformSampler is a Sampler backed by math/rand.
type UniformSampler struct {
	rand *rand.Rand
}

func NewUniformSampler(seed int64) *UniformSampler {
	return &UniformSampler{rand: rand.New(rand.NewSource(seed))}
}

func (s *UniformSampler) Next() float64 {
	return s.rand.Float64()
}

func (s *UniformSampler) Reseed(seed int64) {
	s.rand.Seed(seed)
}

// RandomSeed draws a seed from the operating system so that unseeded runs
// still record a seed that replays them.
func RandomSeed() (int64, error) {
	seed, err := crand.Int(crand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, xerrors.Errorf("drawing random seed: %w", err)
	}
	return seed.Int64(), nil
}
