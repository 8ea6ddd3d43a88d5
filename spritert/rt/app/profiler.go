package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last frame's scoped timings and counters.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	p.track(name)
}

// Record stores a duration measured elsewhere, such as inside the compositor.
func (p *Profiler) Record(name string, d time.Duration) {
	p.track(name)
	p.Scopes[name] = d
}

func (p *Profiler) track(name string) {
	for _, n := range p.Order {
		if n == name {
			return
		}
	}
	p.Order = append(p.Order, name)
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) Reset() {
	// order survives so the display does not jump
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		dur := p.Scopes[name]
		ms := float64(dur.Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}

// fpsCounter averages frame rate over roughly one second windows.
type fpsCounter struct {
	FPS     float64
	frames  int
	elapsed float64
	last    float64
}

// tick records a frame presented at now, in seconds.
func (f *fpsCounter) tick(now float64) {
	if f.last > 0 {
		f.frames++
		f.elapsed += now - f.last
		if f.elapsed >= 1.0 {
			f.FPS = float64(f.frames) / f.elapsed
			f.frames = 0
			f.elapsed = 0
		}
	}
	f.last = now
}
