package simulation

import (
	"github.com/dominant-strategies/go-quai/event"
)

// CellEvent is sent after every finished cell.
type CellEvent struct {
	Row    int
	Column int
	Result CellResult
	Ratio  float64
	Cached bool
	Done   int
	Total  int
}

// SubscribeCellEvents registers ch for cell events. Delivery is synchronous:
// the sweep waits until every subscriber has taken the event, so slow
// subscribers should use a buffered channel.
func (s *Sweep) SubscribeCellEvents(ch chan<- CellEvent) event.Subscription {
	return s.cellFeed.Subscribe(ch)
}
