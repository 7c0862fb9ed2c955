package share

import "time"

// VERSION 版本号
const VERSION = "0.3.0"

// BUILDNAME 制品名称
const BUILDNAME = "workbench"

const PREFIX = "WORKBENCH_"

const PATH = ".workbench"

// 内容缓存默认容量（条目数）
const CACHE_SIZE = 50

// 单个 worker 的结果缓存容量
const RESULT_CACHE_SIZE = 100

// 后台 worker 数量上限
const MAX_WORKERS = 2

const TASK_TIMEOUT = time.Second * 10

// 各类防抖间隔
const (
	PERSIST_DELAY  = 500 * time.Millisecond
	SYNC_DELAY     = 200 * time.Millisecond
	VALIDATE_DELAY = 300 * time.Millisecond
	SCROLL_DELAY   = 16 * time.Millisecond
)

// 虚拟列表默认参数
const (
	ROW_HEIGHT = 1
	ROW_BUFFER = 5
)

// 内存监控阈值（MB）与采样间隔
const (
	MEMORY_WARN_MB     = 256
	MEMORY_CRITICAL_MB = 512
	MONITOR_INTERVAL   = 30 * time.Second
	MONITOR_HISTORY    = 60
)

const SNAPSHOT_DIR = "snapshots"

const MCP_SERVER_NAME = "Workbench MCP Server"
