package supervisor

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

type ResourceStats struct {
	PID           int     `json:"pid"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryRSS     uint64  `json:"memory_rss"`
	MemoryPercent float32 `json:"memory_percent"`
}

// Stats samples CPU and memory usage of the running server.
func (s *Server) Stats() (*ResourceStats, error) {
	if s.handle == nil {
		return nil, fmt.Errorf("%w", ErrNotRunning)
	}
	pid := s.handle.process.Pid
	ps, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("inspect pid %d: %w", pid, err)
	}
	stats := &ResourceStats{PID: pid}
	stats.CPUPercent, _ = ps.CPUPercent()
	if mem, err := ps.MemoryInfo(); err == nil && mem != nil {
		stats.MemoryRSS = mem.RSS
	}
	stats.MemoryPercent, _ = ps.MemoryPercent()
	return stats, nil
}
