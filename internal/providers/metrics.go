package providers

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

// Metrics samples CPU, memory and network statistics. Network throughput is
// derived from the counter delta since the previous sample, so the first
// Snapshot after start reports 0 KB/s.
type Metrics struct {
	mu       sync.Mutex
	lastNet  uint64 // bytes sent+received at last sample
	lastTime time.Time
}

// NewMetrics creates the metrics provider and primes the network counters.
func NewMetrics() *Metrics {
	m := &Metrics{lastTime: time.Now()}
	if counters, err := gnet.IOCounters(false); err == nil && len(counters) > 0 {
		m.lastNet = counters[0].BytesSent + counters[0].BytesRecv
	}
	return m
}

// Snapshot returns the realtime view the desktop UI polls.
func (m *Metrics) Snapshot() (protocol.MetricsSnapshot, error) {
	percents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return protocol.MetricsSnapshot{}, fmt.Errorf("metrics: cpu: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return protocol.MetricsSnapshot{}, fmt.Errorf("metrics: memory: %w", err)
	}

	return protocol.MetricsSnapshot{
		CPU: fmt.Sprintf("%.1f%%", percents[0]),
		RAM: fmt.Sprintf("%.1f%%", vm.UsedPercent),
		Net: fmt.Sprintf("%.1f KB/s", m.netThroughput()),
	}, nil
}

// SystemInfo returns the detailed snapshot behind /mobile/system-info.
func (m *Metrics) SystemInfo() (map[string]string, error) {
	percents, err := cpu.Percent(time.Second, false)
	if err != nil {
		return nil, fmt.Errorf("metrics: cpu: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("metrics: memory: %w", err)
	}
	du, err := disk.Usage("/")
	if err != nil {
		return nil, fmt.Errorf("metrics: disk: %w", err)
	}
	counters, err := gnet.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return nil, fmt.Errorf("metrics: network: %w", err)
	}
	hi, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("metrics: host: %w", err)
	}

	return map[string]string{
		"cpu_usage": fmt.Sprintf("%.1f%%", percents[0]),
		"memory": fmt.Sprintf("%.1fGB / %.1fGB (%.1f%%)",
			gb(vm.Used), gb(vm.Total), vm.UsedPercent),
		"disk": fmt.Sprintf("%.1fGB / %.1fGB (%.1f%%)",
			gb(du.Used), gb(du.Total), du.UsedPercent),
		"network_sent":     fmt.Sprintf("%.1fMB", mb(counters[0].BytesSent)),
		"network_received": fmt.Sprintf("%.1fMB", mb(counters[0].BytesRecv)),
		"os":               hi.Platform,
		"version":          hi.PlatformVersion,
	}, nil
}

func (m *Metrics) netThroughput() float64 {
	counters, err := gnet.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return 0
	}
	total := counters[0].BytesSent + counters[0].BytesRecv

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(m.lastTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	kbps := float64(total-m.lastNet) / elapsed / 1024

	m.lastNet = total
	m.lastTime = now
	return kbps
}

func gb(b uint64) float64 { return float64(b) / (1 << 30) }
func mb(b uint64) float64 { return float64(b) / (1 << 20) }
