package simulation

type Kind uint

const (
	HonestMiner Kind = iota
	SelfishMiner
)

func (k Kind) String() string {
	switch k {
	case HonestMiner:
		return "honest"
	case SelfishMiner:
		return "selfish"
	default:
		return "unknown"
	}
}

// RaceState is the block race between the selfish pool's private chain and
// the public chain, plus the revenue credited so far. The zero value is the
// start of a race.
type RaceState struct {
	// Lead is the private chain length minus the public chain length.
	Lead       uint64
	// ForkLength counts private blocks since the chains were last level. It
	// only matters while Lead is zero.
	ForkLength uint64

	PoolRevenue   uint64
	OthersRevenue uint64

	// Pending counts events that moved Lead or ForkLength without crediting.
	Pending       uint64
	// DoubleCredits counts events that credited two blocks at once, so
	// Credited() == events - Pending + DoubleCredits.
	DoubleCredits uint64
}

// Reset returns the race to its initial state.
func (s *RaceState) Reset() {
	*s = RaceState{}
}

// Credited is the number of blocks assigned to either side.
func (s *RaceState) Credited() uint64 {
	return s.PoolRevenue + s.OthersRevenue
}

// BlockFound applies one discovery event by kind. sampler is only consulted
// when an honest block lands on a tie.
func (s *RaceState) BlockFound(kind Kind, gamma float64, sampler Sampler) {
	if kind == SelfishMiner {
		s.StrategicBlockFound()
		return
	}
	s.OthersBlockFound(gamma, sampler)
}

// StrategicBlockFound handles a block found by the selfish pool.
func (s *RaceState) StrategicBlockFound() {
	s.ForkLength++
	// Must be checked before the lead increment: the pool was on a tie with
	// one withheld block and now publishes both.
	if s.Lead == 0 && s.ForkLength == 2 {
		s.PoolRevenue += 2
		s.ForkLength = 0
		s.DoubleCredits++
		return
	}
	s.Lead++
	s.Pending++
}

// OthersBlockFound handles a block found by the honest miners.
func (s *RaceState) OthersBlockFound(gamma float64, sampler Sampler) {
	switch {
	case s.Lead == 0:
		if s.ForkLength == 0 {
			s.OthersRevenue++
			return
		}
		s.resolveTie(gamma, sampler)
		s.ForkLength = 0
	case s.Lead == 1:
		// Chains are level again, the winner is decided by the next block.
		s.Lead--
		s.Pending++
	case s.Lead == 2:
		// Publish the whole private chain and orphan the honest block.
		s.PoolRevenue += 2
		s.Lead = 0
		s.ForkLength = 0
		s.DoubleCredits++
	default:
		// Publish one block, the pool keeps a lead of at least two.
		s.PoolRevenue++
		s.Lead--
	}
}

// resolveTie settles two competing branches of equal length after an honest
// block was found. A gamma share of the honest miners mined it on top of the
// pool's branch.
func (s *RaceState) resolveTie(gamma float64, sampler Sampler) {
	s.DoubleCredits++
	if sampler.Next() < gamma {
		s.OthersRevenue++
		s.PoolRevenue++
		return
	}
	s.OthersRevenue += 2
}
