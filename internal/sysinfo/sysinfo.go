// Package sysinfo collects the host status shown by the system status command.
package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1 << 30

// highLoadPercent triggers a warning log.
const highLoadPercent = 80

type Snapshot struct {
	OS             string
	Platform       string
	Runtime        string
	CPUModel       string
	CPUGHz         float64
	CPUCores       int
	LoadPercent    float64
	MemTotal       uint64
	MemUsed        uint64
	MemFree        uint64
	// MemUsedPercent is derived from MemUsed/MemTotal.
	MemUsedPercent float64
	Uptime         time.Duration
	ProcessUptime  time.Duration
}

// Collector reads host statistics.
type Collector struct {
	started time.Time
	logger  *slog.Logger
}

func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{started: time.Now(), logger: log.With(slog.String("service", "sysinfo"))}
}

// Snapshot gathers the current status. Individual probe failures leave the
// corresponding fields zero.
func (c *Collector) Snapshot(ctx context.Context) (Snapshot, error) {
	s := Snapshot{
		Platform:      runtime.GOOS,
		Runtime:       runtime.Version(),
		CPUCores:      runtime.NumCPU(),
		ProcessUptime: time.Since(c.started),
	}

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("host info: %w", err)
	}
	s.OS = strings.TrimSpace(fmt.Sprintf("%s %s %s", hi.OS, hi.KernelArch, hi.KernelVersion))
	if hi.Platform != "" {
		s.Platform = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
	}
	s.Uptime = time.Duration(hi.Uptime) * time.Second

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		c.logger.Warn("memory probe failed", slog.Any("error", err))
	} else {
		s.MemTotal = vm.Total
		s.MemFree = vm.Available
		s.MemUsed = vm.Total - vm.Available
		if vm.Total > 0 {
			s.MemUsedPercent = float64(s.MemUsed) * 100 / float64(vm.Total)
		}
	}

	if infos, err := cpu.InfoWithContext(ctx); err != nil || len(infos) == 0 {
		c.logger.Warn("cpu probe failed", slog.Any("error", err))
	} else {
		s.CPUModel = strings.Join(strings.Fields(infos[0].ModelName), " ")
		s.CPUGHz = infos[0].Mhz / 1000
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		s.CPUCores = n
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		c.logger.Warn("load probe failed", slog.Any("error", err))
	} else if s.CPUCores > 0 {
		s.LoadPercent = avg.Load1 * 100 / float64(s.CPUCores)
	}
	if s.LoadPercent > highLoadPercent {
		c.logger.Warn("cpu load is high", slog.Float64("load_percent", s.LoadPercent))
	}
	return s, nil
}

// Rows renders the snapshot as "Label: value" lines for the status card.
func (s Snapshot) Rows() []string {
	return []string{
		"OS: " + s.OS,
		"Platform: " + s.Platform,
		"Go: " + s.Runtime,
		"CPU: " + s.CPUModel,
		fmt.Sprintf("CPU Speed: %.2f GHz", s.CPUGHz),
		fmt.Sprintf("CPU Cores: %d", s.CPUCores),
		fmt.Sprintf("CPU Load: %.1f%%", s.LoadPercent),
		fmt.Sprintf("Memory Total: %.2f GB", float64(s.MemTotal)/gib),
		fmt.Sprintf("Memory Used: %.2f GB (%.1f%%)", float64(s.MemUsed)/gib, s.MemUsedPercent),
		fmt.Sprintf("Memory Free: %.2f GB", float64(s.MemFree)/gib),
		"System Uptime: " + FormatUptime(s.Uptime),
		"Process Uptime: " + FormatUptime(s.ProcessUptime),
	}
}

// FormatUptime renders d as "Xd Xh Xm Xs".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dd %dh %dm %ds", secs/86400, secs%86400/3600, secs%3600/60, secs%60)
}
