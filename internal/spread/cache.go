package spread

import (
	"sync"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
)

// entry lazily computes one SpreadKey's Info for the scenario's current
// hour, the same sync.Once-guarded lazy-compute shape used by
// spatialmodel-inmap's sr.Reader source cache: many cells share a key, and
// only the first lookup in an hour should pay for calculate_offsets.
type entry struct {
	once sync.Once
	info Info
}

// Cache memoizes Info per SpreadKey for a single simulation hour. A new
// Cache must be built at the start of every hour since the cached Info
// closes over that hour's weather (spec.md section 4.D step 10). The
// SpreadKey's fuel field is already the resolved fuel.Type code (the
// raster-to-fuel-type lookup happens once, when cells are built), so
// resolving it here is a plain fuel.Lookup, not another table pass.
type Cache struct {
	mu      sync.Mutex
	entries map[grid.SpreadKey]*entry
	params  Params
	weather fuel.Weather
	nd      int
}

// NewCache builds a spread-info cache for one simulation hour's weather.
func NewCache(p Params, w fuel.Weather, nd int) *Cache {
	return &Cache{
		entries: make(map[grid.SpreadKey]*entry),
		params:  p,
		weather: w,
		nd:      nd,
	}
}

// Get returns the Info for key, computing it at most once per Cache.
func (c *Cache) Get(key grid.SpreadKey) Info {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		f := fuel.Lookup(key.FuelCode())
		e.info = Compute(c.params, f, float64(key.Slope()), float64(key.Aspect()), c.weather, c.nd)
	})
	return e.info
}

// Len reports how many distinct keys have been looked up this hour.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
