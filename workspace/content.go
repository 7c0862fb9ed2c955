package workspace

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	"go.uber.org/zap"
)

var scaffolds = map[string]string{
	"index.html": "<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n  <title>Untitled</title>\n</head>\n<body>\n</body>\n</html>\n",
	".html":      "<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n</head>\n<body>\n</body>\n</html>\n",
	".css":       "/* styles */\n",
	".js":        "// script\n",
	".jsx":       "export default function App() {\n  return null;\n}\n",
	".ts":        "export {};\n",
	".tsx":       "export default function App() {\n  return null;\n}\n",
	".py":        "def main():\n    pass\n",
	".md":        "# Untitled\n",
	".json":      "{}\n",
}

// Scaffold 返回新建文件的默认内容，先按文件名再按扩展名查找
func Scaffold(name string) string {
	name = strings.ToLower(helper.BaseName(name))
	if s, ok := scaffolds[name]; ok {
		return s
	}
	return scaffolds[path.Ext(name)]
}

// Content 返回文件内容
//
// 依次查找缓存、树节点、存储和默认模板，全部落空时返回空串；只有路径不是文件时才返回错误。
func (w *Workspace) Content(ctx context.Context, p string) (string, error) {
	p, err := project.NormalizePath(p)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	text, ok, err := w.lookupLocked(p)
	st := w.storage
	sp := w.storagePath(p)
	w.mu.Unlock()
	if err != nil || ok {
		return text, err
	}

	fromStorage := false
	if st != nil {
		s, err := st.Read(ctx, sp)
		if err == nil {
			text, fromStorage = s, true
		} else {
			w.logger.Debug("读取存储失败", zap.String("path", sp), zap.Error(err))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// 读取期间可能有新的编辑
	if cached, ok, _ := w.lookupLocked(p); ok {
		return cached, nil
	}
	if !fromStorage {
		text = Scaffold(p)
	} else if text == "" {
		w.known[p] = true
	}
	if text != "" {
		w.cache.Set(p, text)
	}
	return text, nil
}

// Peek 返回内存中的内容，不访问存储
func (w *Workspace) Peek(p string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	text, _, _ := w.lookupLocked(p)
	return text
}

func (w *Workspace) lookupLocked(p string) (string, bool, error) {
	n, err := w.tree.Find(p)
	if err != nil {
		return "", false, err
	}
	if !n.IsFile() {
		return "", false, &project.PathError{Op: "read", Path: p, Err: project.ErrNotFile}
	}
	if text, ok := w.cache.Get(p); ok {
		return text, true, nil
	}
	if text, ok := w.dirty[p]; ok {
		w.cache.Set(p, text)
		return text, true, nil
	}
	if n.Content != "" || w.known[p] {
		if n.Content != "" {
			w.cache.Set(p, n.Content)
		}
		return n.Content, true, nil
	}
	return "", false, nil
}

func (w *Workspace) storagePath(p string) string {
	return helper.JoinPath(w.root, p)
}

// UpdateContent 记录编辑后的内容
//
// 缓存和标签页立即更新；同步到树、校验和持久化分别防抖执行。
func (w *Workspace) UpdateContent(p, text string) error {
	p, err := project.NormalizePath(p)
	if err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	n, err := w.tree.Find(p)
	if err == nil && !n.IsFile() {
		err = &project.PathError{Op: "update", Path: p, Err: project.ErrNotFile}
	}
	if err != nil {
		w.mu.Unlock()
		return w.fail(err)
	}

	w.cache.Set(p, text)
	w.dirty[p] = text
	w.known[p] = true
	for i := range w.tabs {
		if w.tabs[i].Path == p {
			w.tabs[i].LastKnownContent = text
		}
	}
	syncer := w.debouncerLocked(w.syncs, p, w.settings.SyncDelay)
	checker := w.checkerLocked(p)
	w.mu.Unlock()

	syncer.Trigger(func() { w.syncPath(p) })
	if checker != nil {
		checker.Trigger(func() { w.submitValidation(p) })
	}
	w.schedulePersist()
	return nil
}

func (w *Workspace) debouncerLocked(m map[string]*helper.Debouncer, p string, delay time.Duration) *helper.Debouncer {
	d, ok := m[p]
	if !ok {
		d = helper.NewDebouncer(w.clock, delay)
		m[p] = d
	}
	return d
}

// syncPath 把等待中的内容写回树
func (w *Workspace) syncPath(p string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncLocked(p)
}

func (w *Workspace) syncLocked(p string) {
	text, ok := w.dirty[p]
	if !ok {
		return
	}
	delete(w.dirty, p)
	nt, err := w.tree.SetContent(p, text)
	if err != nil {
		w.logger.Debug("同步内容失败", zap.String("path", p), zap.Error(err))
		return
	}
	w.tree = nt
}

func (w *Workspace) syncAllLocked() {
	for p := range w.dirty {
		w.syncLocked(p)
	}
}

// FlushAll 立即执行所有等待中的同步、校验和持久化
func (w *Workspace) FlushAll() {
	w.mu.Lock()
	var ds []*helper.Debouncer
	for _, d := range w.syncs {
		ds = append(ds, d)
	}
	for _, d := range w.checks {
		ds = append(ds, d)
	}
	w.mu.Unlock()

	for _, d := range ds {
		d.Flush()
	}
	w.persist.Flush()
}
