// Package workspace 协调项目树、内容缓存、标签页、后台校验和持久化
//
// 所有状态只在持有 Workspace 的锁时修改；防抖回调和校验应答在其它 goroutine 中到达，
// 进入时同样先加锁。存储读写在锁外进行，失败只记录日志。
package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sjzsdu/workbench/config"
	"github.com/sjzsdu/workbench/dispatch"
	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/monitor"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/project/cache"
	"github.com/sjzsdu/workbench/render"
	"github.com/sjzsdu/workbench/storage"
	"go.uber.org/zap"
)

var (
	ErrClosed      = errors.New("workspace closed")
	ErrNoRecords   = errors.New("project record store not configured")
	ErrNoEditor    = errors.New("editor does not support this command")
	ErrNoSnapshots = errors.New("snapshot store not configured")
)

// SnapshotStore 保存树的本地快照，helper/json.JSONStore 满足该接口
type SnapshotStore interface {
	Get(name string, decodeInto interface{}) ([]byte, error)
	Set(name string, data interface{}) error
}

// Options 工作区依赖，全部可选
type Options struct {
	Storage    storage.Storage
	Root       string // 项目在存储中的根目录
	Editor     editor.Widget
	Records    RecordStore
	Snapshots  SnapshotStore
	Dispatcher *dispatch.Dispatcher // 为空时按 Settings 创建并由工作区关闭
	Cache      *cache.ContentCache
	Monitor    *monitor.Monitor
	Clock      clock.Clock
	Logger     *zap.Logger
	Settings   config.Settings
}

// Workspace 是一个打开的项目
type Workspace struct {
	settings  config.Settings
	clock     clock.Clock
	logger    *zap.Logger
	editor    editor.Widget
	records   RecordStore
	snapshots SnapshotStore
	dispatch  *dispatch.Dispatcher
	cache     *cache.ContentCache
	viewport  *render.Viewport
	cleanup   *monitor.CleanupManager
	commands  *Registry
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
	storage   storage.Storage
	root      string
	tree      *project.Tree
	expanded  render.Expanded
	tabs      []Tab
	active    string
	dirty     map[string]string // 等待同步到树的内容
	known     map[string]bool   // 内容已确定的文件，树中的空串也是真实内容
	syncs     map[string]*helper.Debouncer
	checks    map[string]*helper.Debouncer
	persist   *helper.Debouncer
	validator validator
	persisted map[string]uint64 // 已写入存储的内容指纹
	notices   noticeBoard
	record    *ProjectRecord
	ui        UIState
}

// UIState 由命令切换的界面状态
type UIState struct {
	PreviewVisible bool
	OutputVisible  bool
}

// New 创建空工作区
func New(opts Options) *Workspace {
	s := opts.Settings.Normalize()
	w := &Workspace{
		settings:  s,
		clock:     opts.Clock,
		logger:    opts.Logger,
		editor:    opts.Editor,
		records:   opts.Records,
		snapshots: opts.Snapshots,
		dispatch:  opts.Dispatcher,
		cache:     opts.Cache,
		cleanup:   monitor.NewCleanupManager(),
		storage:   opts.Storage,
		root:      helper.StandardizePath(opts.Root),
		tree:      project.New(),
		expanded:  render.Expanded{},
		dirty:     map[string]string{},
		known:     map[string]bool{},
		syncs:     map[string]*helper.Debouncer{},
		checks:    map[string]*helper.Debouncer{},
		validator: newValidator(),
		persisted: map[string]uint64{},
		ui:        UIState{PreviewVisible: true},
	}
	if w.clock == nil {
		w.clock = clock.Real()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.cache == nil {
		w.cache = cache.NewContentCache(s.CacheSize)
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	// 后注册的先执行：停掉防抖，落盘，关闭自建的调度器，最后等待进行中的校验
	w.cleanup.Register("wait", func() error {
		w.cancel()
		w.wg.Wait()
		return nil
	})
	if w.dispatch == nil {
		w.dispatch = dispatch.New(dispatch.Options{
			Workers:  s.Workers,
			Timeout:  s.TaskTimeout,
			Clock:    w.clock,
			Logger:   w.logger.Named("dispatch"),
			Registry: prometheus.NewRegistry(),
		})
		w.cleanup.Register("dispatcher", w.dispatch.Close)
	}
	w.persist = helper.NewDebouncer(w.clock, s.PersistDelay)
	w.viewport = render.NewViewport(render.ViewportOptions{
		RowHeight: s.RowHeight,
		Buffer:    s.RowBuffer,
		Delay:     s.ScrollDelay,
		Clock:     w.clock,
	})
	w.commands = builtinCommands()

	if opts.Monitor != nil {
		opts.Monitor.OnEvent(w.onMemoryEvent)
	}

	w.cleanup.Register("persist", func() error {
		return w.Persist(context.Background())
	})
	w.cleanup.Register("debounce", func() error {
		w.stopDebouncers()
		return nil
	})
	w.cleanup.Register("viewport", func() error {
		w.viewport.Stop()
		return nil
	})
	return w
}

// Close 关闭工作区，清理只执行一次
func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		w.closeErr = w.cleanup.RunAll()
	})
	return w.closeErr
}

// Cleanup 返回工作区的清理管理器，调用方可以注册自己的资源
func (w *Workspace) Cleanup() *monitor.CleanupManager {
	return w.cleanup
}

// Tree 返回当前树，返回值不可变
func (w *Workspace) Tree() *project.Tree {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tree
}

// SyncedTree 先把等待同步的编辑写回树，再返回当前树
func (w *Workspace) SyncedTree() *project.Tree {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncAllLocked()
	return w.tree
}

// Settings 返回生效的配置
func (w *Workspace) Settings() config.Settings {
	return w.settings
}

// Dispatcher 返回后台调度器
func (w *Workspace) Dispatcher() *dispatch.Dispatcher {
	return w.dispatch
}

// Cache 返回内容缓存
func (w *Workspace) Cache() *cache.ContentCache {
	return w.cache
}

// UI 返回界面状态
func (w *Workspace) UI() UIState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ui
}

func (w *Workspace) stopDebouncers() {
	w.mu.Lock()
	syncs := w.syncs
	checks := w.checks
	w.syncs = map[string]*helper.Debouncer{}
	w.checks = map[string]*helper.Debouncer{}
	w.syncAllLocked()
	w.mu.Unlock()

	for _, d := range syncs {
		d.Stop()
	}
	for _, d := range checks {
		d.Stop()
	}
	w.persist.Stop()
}

func (w *Workspace) onMemoryEvent(ev monitor.Event) {
	switch ev.Level {
	case monitor.LevelCritical:
		n := w.cache.Len()
		w.cache.Clear()
		w.logger.Warn("内存紧张，清空内容缓存", zap.Int("entries", n), zap.Float64("heap_mib", ev.Sample.HeapMiB()))
		w.notify(NoticeError, "Memory usage is critical, content cache cleared", nil)
	case monitor.LevelWarning:
		w.notify(NoticeWarning, "Memory usage is high", nil)
	}
}
