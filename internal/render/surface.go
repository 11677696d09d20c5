package render

import "sync"

// Surface ids of the dashboard charts.
const (
	SurfaceCategories = "pieChart"
	SurfaceTrend      = "lineChart"
)

// Surfaces binds charts to named surfaces. Mounting a chart destroys the
// one previously bound to the same surface, so repeated refreshes keep at
// most one live chart per surface.
type Surfaces struct {
	mu        sync.Mutex
	live      map[string]*Chart
	destroyed int
}

func NewSurfaces() *Surfaces {
	return &Surfaces{live: make(map[string]*Chart)}
}

// Mount destroys the chart currently on id, if any, and binds c.
func (s *Surfaces) Mount(id string, c *Chart) *Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.live[id]; ok && prev != c {
		prev.Destroy()
		s.destroyed++
	}
	s.live[id] = c
	return c
}

// Get returns the chart bound to id.
func (s *Surfaces) Get(id string) (*Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.live[id]
	return c, ok
}

// Live is the number of bound charts.
func (s *Surfaces) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// DestroyedCount is the number of charts released by Mount.
func (s *Surfaces) DestroyedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
