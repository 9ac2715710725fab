package system

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo holds facts about the machine that do not change while running.
type HostInfo struct {
	HostName      string `json:"host_name"`
	OS            string `json:"os"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
	Arch          string `json:"arch"`
	CPUModel      string `json:"cpu_model"`
	CPUCores      int    `json:"cpu_cores"`
	TotalMemory   uint64 `json:"total_memory"` // bytes
	GoVersion     string `json:"go_version"`
}

// Sample is one reading of the values that the monitor views graph.
type Sample struct {
	CPUPercent float64   `json:"cpu_percent"`
	PerCore    []float64 `json:"per_core"`

	MemUsed   uint64 `json:"mem_used"`
	MemTotal  uint64 `json:"mem_total"`
	SwapUsed  uint64 `json:"swap_used"`
	SwapTotal uint64 `json:"swap_total"`

	HeapAlloc    uint64 `json:"heap_alloc"` // bytes allocated and still in use
	HeapSys      uint64 `json:"heap_sys"`   // bytes obtained from system
	NumGoroutine int    `json:"num_goroutine"`

	Timestamp time.Time `json:"timestamp"`
}

// MemPercent returns used memory as a percentage of total.
func (s Sample) MemPercent() float64 { return percent(s.MemUsed, s.MemTotal) }

// SwapPercent returns used swap as a percentage of total.
func (s Sample) SwapPercent() float64 { return percent(s.SwapUsed, s.SwapTotal) }

// HeapPercent returns the in-use share of the Go heap obtained from the OS.
func (s Sample) HeapPercent() float64 { return percent(s.HeapAlloc, s.HeapSys) }

func percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// Sampler reads host metrics.
type Sampler interface {
	Host(ctx context.Context) (HostInfo, error)
	Sample(ctx context.Context) (Sample, error)
}

// HostSampler reads metrics from the operating system and the Go runtime.
type HostSampler struct{}

var _ Sampler = (*HostSampler)(nil)

// NewHostSampler creates a sampler and primes the CPU counters so the first
// Sample has a baseline to compare against.
func NewHostSampler(ctx context.Context) *HostSampler {
	_, _ = cpu.PercentWithContext(ctx, 0, true)
	return &HostSampler{}
}

// Host returns static host information. Fields that cannot be read are left as "Unknown".
func (s *HostSampler) Host(ctx context.Context) (HostInfo, error) {
	info := HostInfo{
		HostName:      "Unknown",
		OS:            runtime.GOOS,
		OSVersion:     "Unknown",
		KernelVersion: "Unknown",
		Arch:          runtime.GOARCH,
		CPUModel:      "Unknown",
		CPUCores:      runtime.NumCPU(),
		GoVersion:     runtime.Version(),
	}

	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return info, errors.Wrap(err, "read host info")
	}
	info.HostName = orUnknown(h.Hostname)
	if h.Platform != "" {
		info.OS = h.Platform
	}
	info.OSVersion = orUnknown(h.PlatformVersion)
	info.KernelVersion = orUnknown(h.KernelVersion)

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = orUnknown(cpus[0].ModelName)
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		info.CPUCores = n
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return info, errors.Wrap(err, "read memory info")
	}
	info.TotalMemory = vm.Total
	return info, nil
}

// Sample returns current usage. CPU percentages cover the time since the
// previous call.
func (s *HostSampler) Sample(ctx context.Context) (Sample, error) {
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return Sample{}, errors.Wrap(err, "read cpu usage")
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, errors.Wrap(err, "read memory usage")
	}

	out := Sample{
		CPUPercent: average(perCore),
		PerCore:    perCore,
		MemUsed:    vm.Used,
		MemTotal:   vm.Total,
		Timestamp:  time.Now(),
	}

	// Swap is optional; some containers do not expose it.
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		out.SwapUsed, out.SwapTotal = sw.Used, sw.Total
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	out.HeapAlloc = m.HeapAlloc
	out.HeapSys = m.HeapSys
	out.NumGoroutine = runtime.NumGoroutine()
	return out, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
