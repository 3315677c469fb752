package stub

import (
	"sync"
	"time"
)

// metrics holds operational counters for the stub server, reported on
// /health so the smoke tester's transcript shows some service state.
type metrics struct {
	mu              sync.RWMutex
	requestsTotal   int64
	detectRequests  int64
	lastRequestTime time.Time
}

func newMetrics() *metrics {
	return &metrics{}
}

func (m *metrics) recordRequest(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestsTotal++
	m.lastRequestTime = time.Now()
	if path == "/detect" {
		m.detectRequests++
	}
}

func (m *metrics) snapshot() (total, detects int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsTotal, m.detectRequests
}
