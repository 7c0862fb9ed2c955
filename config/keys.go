package config

import (
	"sort"
	"strconv"
	"time"
)

// ConfigKeyInfo 存储配置键的相关信息
type ConfigKeyInfo struct {
	Description string   // 配置项描述
	Options     []string // 可选值，为空表示没有限制
	Type        string   // string, int, duration
	Default     any
}

// 配置键常量定义
const (
	KeyLang             = "lang"
	KeyLogLevel         = "log_level"
	KeyCacheSize        = "cache_size"
	KeyWorkers          = "workers"
	KeyTaskTimeout      = "task_timeout"
	KeyPersistDelay     = "persist_delay"
	KeySyncDelay        = "sync_delay"
	KeyValidateDelay    = "validate_delay"
	KeyScrollDelay      = "scroll_delay"
	KeyRowHeight        = "row_height"
	KeyRowBuffer        = "row_buffer"
	KeyMemoryWarnMB     = "memory_warn_mb"
	KeyMemoryCriticalMB = "memory_critical_mb"
	KeyMonitorInterval  = "monitor_interval"
)

// ConfigKeys 存储所有配置键及其信息
var ConfigKeys = map[string]ConfigKeyInfo{
	KeyLang: {
		Description: "Set language",
		Options:     []string{"en", "zh"},
		Type:        "string",
		Default:     "en",
	},
	KeyLogLevel: {
		Description: "Set log level",
		Options:     []string{"debug", "info", "warn", "error"},
		Type:        "string",
		Default:     "warn",
	},
	KeyCacheSize: {
		Description: "Number of file contents kept in memory",
		Type:        "int",
		Default:     defaultSettings.CacheSize,
	},
	KeyWorkers: {
		Description: "Background workers, -1 picks min(2, CPU count), 0 runs checks in-process",
		Type:        "int",
		Default:     defaultSettings.Workers,
	},
	KeyTaskTimeout: {
		Description: "Timeout of a single background task",
		Type:        "duration",
		Default:     defaultSettings.TaskTimeout,
	},
	KeyPersistDelay: {
		Description: "Delay before changes are persisted",
		Type:        "duration",
		Default:     defaultSettings.PersistDelay,
	},
	KeySyncDelay: {
		Description: "Delay before editor text is written back to the tree",
		Type:        "duration",
		Default:     defaultSettings.SyncDelay,
	},
	KeyValidateDelay: {
		Description: "Delay before edited text is validated",
		Type:        "duration",
		Default:     defaultSettings.ValidateDelay,
	},
	KeyScrollDelay: {
		Description: "Scroll recomputation debounce",
		Type:        "duration",
		Default:     defaultSettings.ScrollDelay,
	},
	KeyRowHeight: {
		Description: "Row height of the file tree",
		Type:        "int",
		Default:     defaultSettings.RowHeight,
	},
	KeyRowBuffer: {
		Description: "Rows rendered beyond the visible area",
		Type:        "int",
		Default:     defaultSettings.RowBuffer,
	},
	KeyMemoryWarnMB: {
		Description: "Heap size that triggers a warning (MiB)",
		Type:        "int",
		Default:     defaultSettings.MemoryWarnMB,
	},
	KeyMemoryCriticalMB: {
		Description: "Heap size that clears the content cache (MiB)",
		Type:        "int",
		Default:     defaultSettings.MemoryCriticalMB,
	},
	KeyMonitorInterval: {
		Description: "Memory sampling interval",
		Type:        "duration",
		Default:     defaultSettings.MonitorInterval,
	},
}

// GetConfigDescription 获取配置键的描述
func GetConfigDescription(key string) string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Description
	}
	return ""
}

// GetConfigType 获取配置键的类型
func GetConfigType(key string) string {
	if info, exists := ConfigKeys[key]; exists && info.Type != "" {
		return info.Type
	}
	return "string"
}

// IsValidConfigOption 检查给定的值是否是配置键的有效取值
func IsValidConfigOption(key, value string) bool {
	info, exists := ConfigKeys[key]
	if !exists {
		return true
	}

	switch info.Type {
	case "int":
		_, err := strconv.Atoi(value)
		return err == nil
	case "duration":
		_, err := time.ParseDuration(value)
		return err == nil
	}

	if len(info.Options) == 0 {
		return true
	}
	for _, option := range info.Options {
		if option == value {
			return true
		}
	}
	return false
}

// GetAllConfigKeys 获取所有配置键，按名称排序
func GetAllConfigKeys() []string {
	keys := make([]string, 0, len(ConfigKeys))
	for key := range ConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
