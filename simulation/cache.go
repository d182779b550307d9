package simulation

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/xerrors"
)

const DefaultCacheSize = 16384

// ResultStore keeps finished cells so that a repeated sweep can skip them.
// Only cells sampled from their own derived stream may be stored, since only
// those are independent of the order the sweep visits them in.
type ResultStore interface {
	Lookup(key CellKey) (CellResult, bool, error)
	Save(key CellKey, result CellResult) error
}

// CellCache is an in-memory ResultStore bounded by an LRU policy.
type CellCache struct {
	cells *lru.Cache[CellKey, CellResult]
}

func NewCellCache(size int) (*CellCache, error) {
	cells, err := lru.New[CellKey, CellResult](size)
	if err != nil {
		return nil, xerrors.Errorf("creating cell cache: %w", err)
	}
	return &CellCache{cells: cells}, nil
}

func (c *CellCache) Lookup(key CellKey) (CellResult, bool, error) {
	result, ok := c.cells.Get(key)
	return result, ok, nil
}

func (c *CellCache) Save(key CellKey, result CellResult) error {
	c.cells.Add(key, result)
	return nil
}

func (c *CellCache) Len() int {
	return c.cells.Len()
}

func (c *CellCache) Purge() {
	c.cells.Purge()
}
