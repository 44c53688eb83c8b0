package observability

import (
	"strconv"
	"sync"
	"time"
)

// RouteStats accumulates request volume and latency for one route/status
// combination.
type RouteStats struct {
	Count         int64
	TotalDuration time.Duration
}

// Metrics keeps in-process counters fed by the HTTP middlewares: request
// volume and cumulative latency per route/status, plus error counts per
// route and error code. Nothing is exported to an external system in this
// build; snapshots exist for tests and debugging.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*RouteStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*RouteStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest accumulates one completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + path + " " + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &RouteStats{}
		m.requests[key] = stats
	}
	stats.Count++
	stats.TotalDuration += duration
}

// RecordError counts one request that ended in an error envelope.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method+" "+path+" "+code]++
}

// RequestSnapshot copies the request counters, keyed "METHOD path status".
func (m *Metrics) RequestSnapshot() map[string]RouteStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.requests))
	for key, stats := range m.requests {
		out[key] = *stats
	}
	return out
}

// ErrorSnapshot copies the error counters, keyed "METHOD path CODE".
func (m *Metrics) ErrorSnapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.errors))
	for key, count := range m.errors {
		out[key] = count
	}
	return out
}
