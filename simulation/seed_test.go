package simulation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellKeySeed(t *testing.T) {
	key := CellKey{BaseSeed: 1, Alpha: 0.25, Gamma: 0.5, Events: 1000000}
	require.Equal(t, key.Seed(), key.Seed())
	require.Equal(t, key.Hash(), CellKey{BaseSeed: 1, Alpha: 0.25, Gamma: 0.5, Events: 1000000}.Hash())

	variants := []CellKey{
		{BaseSeed: 2, Alpha: 0.25, Gamma: 0.5, Events: 1000000},
		{BaseSeed: 1, Alpha: 0.26, Gamma: 0.5, Events: 1000000},
		{BaseSeed: 1, Alpha: 0.25, Gamma: 1, Events: 1000000},
		{BaseSeed: 1, Alpha: 0.25, Gamma: 0.5, Events: 999999},
	}
	for _, v := range variants {
		require.NotEqual(t, key.Seed(), v.Seed(), "%+v", v)
	}
}

func TestHashString(t *testing.T) {
	var h Hash
	h.SetBytes([]byte{0xab, 0xcd})
	require.Equal(t, "0x"+strings.Repeat("00", HashLength-2)+"abcd", h.String())

	long := make([]byte, HashLength+4)
	long[len(long)-1] = 1
	h.SetBytes(long)
	require.Equal(t, byte(1), h.Bytes()[HashLength-1])
}

func TestUniformSamplerReseed(t *testing.T) {
	s := NewUniformSampler(10)
	first := []float64{s.Next(), s.Next(), s.Next()}
	for _, v := range first {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
	s.Reseed(10)
	require.Equal(t, first, []float64{s.Next(), s.Next(), s.Next()})
}

func TestRandomSeed(t *testing.T) {
	seed, err := RandomSeed()
	require.NoError(t, err)
	require.GreaterOrEqual(t, seed, int64(0))
}
