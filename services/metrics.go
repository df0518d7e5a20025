// Package services holds process-level service plumbing shared by the HTTP
// surface.
package services

import (
	"sync/atomic"
	"time"
)

// Metrics counts the work this instance has done since start. All counters
// are safe for concurrent use.
type Metrics struct {
	startTime time.Time

	reportsBuilt  atomic.Uint64
	weeklyServed  atomic.Uint64
	historyWrites atomic.Uint64
	historyReads  atomic.Uint64
}

// NewMetrics creates a metrics set anchored at the current instant.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) MarkReportBuilt()  { m.reportsBuilt.Add(1) }
func (m *Metrics) MarkWeeklyServed() { m.weeklyServed.Add(1) }
func (m *Metrics) MarkHistoryWrite() { m.historyWrites.Add(1) }
func (m *Metrics) MarkHistoryRead()  { m.historyReads.Add(1) }

// Snapshot returns the current counter values for the status report.
func (m *Metrics) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds": int64(time.Since(m.startTime).Seconds()),
		"reports_built":  m.reportsBuilt.Load(),
		"weekly_served":  m.weeklyServed.Load(),
		"history_writes": m.historyWrites.Load(),
		"history_reads":  m.historyReads.Load(),
	}
}
