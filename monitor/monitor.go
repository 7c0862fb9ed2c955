// Package monitor 周期采样进程内存并在越过阈值时发出事件，同时管理退出时的清理回调
package monitor

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/helper/display"
	"github.com/sjzsdu/workbench/share"
	"go.uber.org/zap"
)

const mib = 1 << 20

// Level 内存压力等级
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Sample 一次内存采样
type Sample struct {
	Time       time.Time
	HeapAlloc  uint64
	Sys        uint64
	NumGC      uint32
	Goroutines int
}

// HeapMiB 以 MiB 为单位返回堆占用
func (s Sample) HeapMiB() float64 {
	return float64(s.HeapAlloc) / mib
}

// Sampler 读取当前内存计数
type Sampler func() Sample

// RuntimeSampler 通过 runtime.ReadMemStats 采样
func RuntimeSampler() Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{
		HeapAlloc:  ms.HeapAlloc,
		Sys:        ms.Sys,
		NumGC:      ms.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}

// Event 压力等级上升时发出
type Event struct {
	Level  Level
	Sample Sample
}

// Options 监控参数，零值使用默认配置
type Options struct {
	Interval      time.Duration
	WarnBytes     uint64
	CriticalBytes uint64
	History       int
	Clock         clock.Clock
	Sampler       Sampler
	Logger        *zap.Logger
}

// Monitor 内存监控
type Monitor struct {
	interval time.Duration
	warn     uint64
	critical uint64
	limit    int
	clock    clock.Clock
	sampler  Sampler
	logger   *zap.Logger

	mu       sync.Mutex
	history  []Sample
	level    Level
	handlers []func(Event)
	ticker   *clock.Ticker
	done     chan struct{}
}

// New 创建监控，需要调用 Start 开始周期采样
func New(opts Options) *Monitor {
	m := &Monitor{
		interval: opts.Interval,
		warn:     opts.WarnBytes,
		critical: opts.CriticalBytes,
		limit:    opts.History,
		clock:    opts.Clock,
		sampler:  opts.Sampler,
		logger:   opts.Logger,
	}
	if m.interval <= 0 {
		m.interval = share.MONITOR_INTERVAL
	}
	if m.warn == 0 {
		m.warn = share.MEMORY_WARN_MB * mib
	}
	if m.critical < m.warn {
		m.critical = max(m.warn, share.MEMORY_CRITICAL_MB*mib)
	}
	if m.limit <= 0 {
		m.limit = share.MONITOR_HISTORY
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if m.sampler == nil {
		m.sampler = RuntimeSampler
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// OnEvent 注册事件回调
func (m *Monitor) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Start 开始周期采样，重复调用无效
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker != nil {
		return
	}
	m.ticker = m.clock.NewTicker(m.interval)
	m.done = make(chan struct{})
	go m.loop(m.ticker, m.done)
}

func (m *Monitor) loop(t *clock.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C:
			m.Sample()
		}
	}
}

// Stop 停止周期采样
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.done)
	m.ticker = nil
}

// Sample 立即采样一次并评估阈值
func (m *Monitor) Sample() Sample {
	s := m.sampler()
	if s.Time.IsZero() {
		s.Time = m.clock.Now()
	}

	m.mu.Lock()
	m.history = append(m.history, s)
	if len(m.history) > m.limit {
		m.history = append(m.history[:0:0], m.history[len(m.history)-m.limit:]...)
	}
	next := m.levelOf(s.HeapAlloc)
	raised := next > m.level
	if next != m.level {
		m.logger.Debug("内存压力等级变化", zap.Stringer("from", m.level), zap.Stringer("to", next))
	}
	m.level = next
	handlers := append([]func(Event){}, m.handlers...)
	m.mu.Unlock()

	if raised {
		fields := []zap.Field{zap.Uint64("heap_bytes", s.HeapAlloc), zap.Int("goroutines", s.Goroutines)}
		if next == LevelCritical {
			m.logger.Error("内存占用过高", fields...)
		} else {
			m.logger.Warn("内存占用偏高", fields...)
		}
		ev := Event{Level: next, Sample: s}
		for _, h := range handlers {
			h(ev)
		}
	}
	return s
}

func (m *Monitor) levelOf(heap uint64) Level {
	switch {
	case heap >= m.critical:
		return LevelCritical
	case heap >= m.warn:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// Level 返回当前压力等级
func (m *Monitor) Level() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// History 返回采样历史，从旧到新
func (m *Monitor) History() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.history...)
}

// Chart 把堆占用历史画成折线图
func (m *Monitor) Chart(width, height int, caption string) string {
	history := m.History()
	data := make([]float64, len(history))
	for i, s := range history {
		data[i] = s.HeapMiB()
	}
	return display.LineChart(data, width, height, caption)
}

// Summary 返回最近一次采样的简短描述
func (m *Monitor) Summary() string {
	history := m.History()
	if len(history) == 0 {
		return ""
	}
	s := history[len(history)-1]
	return fmt.Sprintf("heap %.1f MiB, sys %.1f MiB, gc %d, goroutines %d (%s)",
		s.HeapMiB(), float64(s.Sys)/mib, s.NumGC, s.Goroutines, m.Level())
}
