package screening

import (
	"sync"
	"time"
)

// Metrics are process-local screening counters owned by the worker. Reset on
// restart, best-effort across instances.
type Metrics struct {
	mu                  sync.Mutex
	totalProcessed      int64
	successCount        int64
	failureCount        int64
	consecutiveFailures int64
	avgLatency          time.Duration
	lastProcessedAt     time.Time
}

// MetricsSnapshot is a point-in-time copy safe to hand to callers.
type MetricsSnapshot struct {
	TotalProcessed      int64     `json:"total_processed"`
	SuccessCount        int64     `json:"success_count"`
	FailureCount        int64     `json:"failure_count"`
	ConsecutiveFailures int64     `json:"consecutive_failures"`
	AvgLatencyMs        int64     `json:"avg_latency_ms"`
	LastProcessedAt     time.Time `json:"last_processed_at"`
}

func (m *Metrics) recordSuccess(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalProcessed++
	m.successCount++
	m.consecutiveFailures = 0
	m.updateLatency(latency)
}

func (m *Metrics) recordFailure(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalProcessed++
	m.failureCount++
	m.consecutiveFailures++
	m.updateLatency(latency)
}

func (m *Metrics) resetConsecutive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures = 0
}

// updateLatency maintains a running average. Caller holds the lock.
func (m *Metrics) updateLatency(latency time.Duration) {
	m.avgLatency += (latency - m.avgLatency) / time.Duration(m.totalProcessed)
	m.lastProcessedAt = time.Now()
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		TotalProcessed:      m.totalProcessed,
		SuccessCount:        m.successCount,
		FailureCount:        m.failureCount,
		ConsecutiveFailures: m.consecutiveFailures,
		AvgLatencyMs:        m.avgLatency.Milliseconds(),
		LastProcessedAt:     m.lastProcessedAt,
	}
}
