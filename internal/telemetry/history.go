package telemetry

import "sync"

// Point is one chart sample: seconds since the history started, and a value.
type Point struct {
	T float64
	V float64
}

// History is a fixed-capacity ring of points. Once full, each Add
// evicts the oldest point.
type History struct {
	mu     sync.Mutex
	points []Point
	size   int
	pos    int
	full   bool
}

// NewHistory creates a history holding at most n points (minimum 1).
func NewHistory(n int) *History {
	if n < 1 {
		n = 1
	}
	return &History{points: make([]Point, n), size: n}
}

// Add appends a point.
func (h *History) Add(t, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.points[h.pos] = Point{T: t, V: v}
	h.pos = (h.pos + 1) % h.size
	if h.pos == 0 {
		h.full = true
	}
}

// Len returns the number of stored points.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return h.size
	}
	return h.pos
}

// Cap returns the capacity.
func (h *History) Cap() int { return h.size }

// Points returns the stored points, oldest first.
func (h *History) Points() []Point {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		out := make([]Point, h.pos)
		copy(out, h.points[:h.pos])
		return out
	}

	out := make([]Point, h.size)
	copy(out, h.points[h.pos:])
	copy(out[h.size-h.pos:], h.points[:h.pos])
	return out
}

// Last returns the newest point.
func (h *History) Last() (Point, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.full && h.pos == 0 {
		return Point{}, false
	}
	return h.points[(h.pos-1+h.size)%h.size], true
}
