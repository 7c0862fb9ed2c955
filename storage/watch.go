package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Op 文件变化类型
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "rename"
	}
}

// Event 是相对于监听根目录的文件变化
type Event struct {
	Path string
	Op   Op
}

// Watcher 递归监听磁盘目录的变化
type Watcher struct {
	root   string
	skip   func(name string) bool
	logger *zap.Logger

	watcher *fsnotify.Watcher
	events  chan Event
	cancel  context.CancelFunc
	once    sync.Once
	done    chan struct{}
}

// Watch 开始监听 root 及其子目录，skip 返回 true 的目录名不被监听
func Watch(ctx context.Context, root string, skip func(name string) bool, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if skip == nil {
		skip = func(string) bool { return false }
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		root:    abs,
		skip:    skip,
		logger:  logger,
		watcher: fw,
		events:  make(chan Event, 64),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	if err := w.addTree(abs); err != nil {
		cancel()
		fw.Close()
		return nil, err
	}

	go w.loop(ctx)
	return w, nil
}

// Events 返回变化事件，Close 之后被关闭
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close 停止监听
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.skip(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn("无法监听目录", zap.String("dir", p), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("文件监听出错", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)

	var op Op
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !w.skip(info.Name()) {
			if err := w.addTree(ev.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				w.logger.Warn("无法监听新目录", zap.String("dir", ev.Name), zap.Error(err))
			}
		}
	case ev.Has(fsnotify.Write):
		op = OpWrite
	case ev.Has(fsnotify.Remove):
		op = OpRemove
	case ev.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	select {
	case w.events <- Event{Path: rel, Op: op}:
	case <-ctx.Done():
	}
}
