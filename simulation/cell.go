package simulation

import "fmt"

// CellResult is the outcome of one (alpha, gamma) cell.
type CellResult struct {
	Alpha         float64
	Gamma         float64
	Events        int64
	PoolRevenue   uint64
	OthersRevenue uint64
	// PendingEvents is the number of events that credited nothing.
	PendingEvents uint64
	// DoubleCredits is the number of events that credited two blocks.
	DoubleCredits uint64
}

// Ratio is the selfish pool's share of all credited blocks.
func (r CellResult) Ratio() (float64, error) {
	total := r.PoolRevenue + r.OthersRevenue
	if total == 0 {
		return 0, &DegenerateCellError{Alpha: r.Alpha, Gamma: r.Gamma, Events: r.Events}
	}
	return float64(r.PoolRevenue) / float64(total), nil
}

func (r CellResult) String() string {
	return fmt.Sprintf("{ Alpha: %v, Gamma: %v, Events: %v, Pool: %v, Others: %v, Pending: %v, Double: %v }",
		r.Alpha, r.Gamma, r.Events, r.PoolRevenue, r.OthersRevenue, r.PendingEvents, r.DoubleCredits)
}

// RunCell simulates events block discoveries where each block is found by the
// selfish pool with probability alpha. The race starts fresh and is dropped
// when the cell returns. The result is filled in even when the ratio is
// undefined, in which case a *DegenerateCellError is returned with it.
func RunCell(alpha, gamma float64, events int64, sampler Sampler) (CellResult, float64, error) {
	var race RaceState
	for i := int64(0); i < events; i++ {
		kind := HonestMiner
		if sampler.Next() < alpha {
			kind = SelfishMiner
		}
		race.BlockFound(kind, gamma, sampler)
	}

	result := CellResult{
		Alpha:         alpha,
		Gamma:         gamma,
		Events:        events,
		PoolRevenue:   race.PoolRevenue,
		OthersRevenue: race.OthersRevenue,
		PendingEvents: race.Pending,
		DoubleCredits: race.DoubleCredits,
	}
	ratio, err := result.Ratio()
	return result, ratio, err
}
