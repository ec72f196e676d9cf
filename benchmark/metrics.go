// Package benchmark runs detection-quality evaluations across resolutions and
// persists their results.
package benchmark

import (
	"runtime"
	"time"
)

// ScenarioMetrics captures timing for a single scenario
type ScenarioMetrics struct {
	Scenario     string        `json:"scenario"`
	Resolution   int           `json:"resolution"`
	RecordCount  int           `json:"record_count"`
	LoadDuration time.Duration `json:"load_duration"`
	PlotDuration time.Duration `json:"plot_duration"`
	Error        string        `json:"error,omitempty"`
}

// RunMetrics captures timing and memory data for a whole run
type RunMetrics struct {
	Timestamp          time.Time         `json:"timestamp"`
	TotalDuration      time.Duration     `json:"total_duration"`
	EvaluationDuration time.Duration     `json:"evaluation_duration"`
	ReportDuration     time.Duration     `json:"report_duration"`
	Scenarios          []ScenarioMetrics `json:"scenarios"`
	MemoryStats        MemoryMetrics     `json:"memory_stats"`
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
}

func readMemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

func memoryDelta(start, end runtime.MemStats) MemoryMetrics {
	return MemoryMetrics{
		AllocBytes:      end.Alloc,
		TotalAllocBytes: end.TotalAlloc - start.TotalAlloc,
		SysBytes:        end.Sys,
		NumGC:           end.NumGC - start.NumGC,
		HeapAllocBytes:  end.HeapAlloc,
	}
}
