package render

import (
	"sync"
	"time"
)

// DefaultFPSInterval is how often an FPSMeter publishes a new average.
const DefaultFPSInterval = 200 * time.Millisecond

// FPSMeter averages frame deltas over fixed wall-clock intervals. It is safe
// for concurrent use.
type FPSMeter struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time

	count int
	delta float64
	last  time.Time
	fps   float64
}

// NewFPSMeter returns a meter that publishes every interval. A non-positive
// interval uses DefaultFPSInterval.
func NewFPSMeter(interval time.Duration) *FPSMeter {
	if interval <= 0 {
		interval = DefaultFPSInterval
	}
	m := &FPSMeter{interval: interval, now: time.Now}
	m.last = m.now()
	return m
}

// Observe records one frame of dt seconds. It reports whether a new average
// was published.
func (m *FPSMeter) Observe(dt float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.delta += dt
	m.count++

	now := m.now()
	if now.Sub(m.last) < m.interval || m.delta == 0 {
		return false
	}
	m.fps = float64(m.count) / m.delta
	m.count = 0
	m.delta = 0
	m.last = now
	return true
}

// FPS returns the last published average, or 0 before the first interval.
func (m *FPSMeter) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

// Reset discards the current interval and the published average.
func (m *FPSMeter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = 0
	m.delta = 0
	m.fps = 0
	m.last = m.now()
}
