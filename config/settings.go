package config

import (
	"time"

	"github.com/sjzsdu/workbench/share"
)

// Settings 是各组件使用的强类型配置
type Settings struct {
	Lang             string
	LogLevel         string
	CacheSize        int
	Workers          int
	TaskTimeout      time.Duration
	PersistDelay     time.Duration
	SyncDelay        time.Duration
	ValidateDelay    time.Duration
	ScrollDelay      time.Duration
	RowHeight        int
	RowBuffer        int
	MemoryWarnMB     int
	MemoryCriticalMB int
	MonitorInterval  time.Duration
}

var defaultSettings = Settings{
	Lang:             "en",
	LogLevel:         "warn",
	CacheSize:        share.CACHE_SIZE,
	Workers:          -1,
	TaskTimeout:      share.TASK_TIMEOUT,
	PersistDelay:     share.PERSIST_DELAY,
	SyncDelay:        share.SYNC_DELAY,
	ValidateDelay:    share.VALIDATE_DELAY,
	ScrollDelay:      share.SCROLL_DELAY,
	RowHeight:        share.ROW_HEIGHT,
	RowBuffer:        share.ROW_BUFFER,
	MemoryWarnMB:     share.MEMORY_WARN_MB,
	MemoryCriticalMB: share.MEMORY_CRITICAL_MB,
	MonitorInterval:  share.MONITOR_INTERVAL,
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return defaultSettings
}

// Load 从当前配置构建 Settings，非法取值回退为默认值
func Load() Settings {
	mu.RLock()
	defer mu.RUnlock()

	s := Settings{
		Lang:             v.GetString(KeyLang),
		LogLevel:         v.GetString(KeyLogLevel),
		CacheSize:        v.GetInt(KeyCacheSize),
		Workers:          v.GetInt(KeyWorkers),
		TaskTimeout:      v.GetDuration(KeyTaskTimeout),
		PersistDelay:     v.GetDuration(KeyPersistDelay),
		SyncDelay:        v.GetDuration(KeySyncDelay),
		ValidateDelay:    v.GetDuration(KeyValidateDelay),
		ScrollDelay:      v.GetDuration(KeyScrollDelay),
		RowHeight:        v.GetInt(KeyRowHeight),
		RowBuffer:        v.GetInt(KeyRowBuffer),
		MemoryWarnMB:     v.GetInt(KeyMemoryWarnMB),
		MemoryCriticalMB: v.GetInt(KeyMemoryCriticalMB),
		MonitorInterval:  v.GetDuration(KeyMonitorInterval),
	}
	return s.Normalize()
}

// Normalize 修正越界的取值
func (s Settings) Normalize() Settings {
	d := defaultSettings
	if s.Lang == "" {
		s.Lang = d.Lang
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.CacheSize <= 0 {
		s.CacheSize = d.CacheSize
	}
	// -1 自动选择数量，0 不启用后台 worker
	if s.Workers < -1 {
		s.Workers = d.Workers
	}
	positive := func(p *time.Duration, def time.Duration) {
		if *p <= 0 {
			*p = def
		}
	}
	positive(&s.TaskTimeout, d.TaskTimeout)
	positive(&s.PersistDelay, d.PersistDelay)
	positive(&s.SyncDelay, d.SyncDelay)
	positive(&s.ValidateDelay, d.ValidateDelay)
	positive(&s.ScrollDelay, d.ScrollDelay)
	positive(&s.MonitorInterval, d.MonitorInterval)
	if s.RowHeight <= 0 {
		s.RowHeight = d.RowHeight
	}
	if s.RowBuffer < 0 {
		s.RowBuffer = d.RowBuffer
	}
	if s.MemoryWarnMB <= 0 {
		s.MemoryWarnMB = d.MemoryWarnMB
	}
	if s.MemoryCriticalMB < s.MemoryWarnMB {
		s.MemoryCriticalMB = s.MemoryWarnMB
	}
	return s
}
