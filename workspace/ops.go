package workspace

import (
	"context"
	"fmt"

	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/render"
	"github.com/sjzsdu/workbench/storage"
	"go.uber.org/zap"
)

// CreateFile 在 parent 下创建文件并打开，内容为该类型的默认模板
func (w *Workspace) CreateFile(ctx context.Context, parent, name string) (string, error) {
	p, err := w.insert(parent, project.NewFile(name, Scaffold(name)))
	if err != nil {
		return "", err
	}
	if err := w.OpenFile(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

// CreateFolder 在 parent 下创建文件夹
func (w *Workspace) CreateFolder(parent, name string) (string, error) {
	return w.insert(parent, project.NewFolder(name))
}

func (w *Workspace) insert(parent string, n *project.Node) (string, error) {
	parent, err := project.NormalizePath(parent)
	if err != nil {
		return "", w.fail(err)
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrClosed
	}
	nt, err := w.tree.Insert(parent, n)
	if err != nil {
		w.mu.Unlock()
		return "", w.fail(err)
	}
	w.tree = nt
	if parent != "" {
		w.expanded = render.ExpandAncestors(w.expanded, helper.JoinPath(parent, n.Name))
	}
	w.mu.Unlock()

	w.schedulePersist()
	return helper.JoinPath(parent, n.Name), nil
}

// Delete 删除节点及其后代；删除了当前文件时切换到深度优先的第一个文件
func (w *Workspace) Delete(ctx context.Context, p string) error {
	p, err := project.NormalizePath(p)
	if err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.syncAllLocked()
	nt, err := w.tree.Remove(p)
	if err != nil {
		w.mu.Unlock()
		return w.fail(err)
	}
	w.tree = nt
	w.cache.DeletePrefix(p)
	w.forgetKnownLocked(p)
	w.validator.forgetLocked(p)
	stopped := w.forgetDebouncersLocked(p)
	for k := range w.expanded {
		if helper.IsSelfOrDescendant(k, p) {
			w.expanded = w.expanded.Toggle(k)
		}
	}
	lostActive := w.dropTabsLocked(p)
	var fallback string
	if lostActive {
		w.activateLocked("", "")
		if n, ok := w.tree.FirstFile(); ok {
			fallback = n.Path
		}
	}
	w.mu.Unlock()

	for _, d := range stopped {
		d.Stop()
	}
	w.schedulePersist()
	if fallback != "" {
		return w.OpenFile(ctx, fallback)
	}
	return nil
}

// Rename 重命名节点，返回新路径
func (w *Workspace) Rename(p, newName string) (string, error) {
	return w.relocate(p, func(t *project.Tree, p string) (*project.Tree, string, error) {
		nt, err := t.Rename(p, newName)
		return nt, helper.JoinPath(helper.ParentPath(p), newName), err
	})
}

// Move 把节点移动到 newParent 下，返回新路径
func (w *Workspace) Move(p, newParent string) (string, error) {
	return w.relocate(p, func(t *project.Tree, p string) (*project.Tree, string, error) {
		nt, err := t.Move(p, newParent)
		return nt, helper.JoinPath(helper.StandardizePath(newParent), helper.BaseName(p)), err
	})
}

func (w *Workspace) relocate(p string, op func(*project.Tree, string) (*project.Tree, string, error)) (string, error) {
	p, err := project.NormalizePath(p)
	if err != nil {
		return "", w.fail(err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrClosed
	}
	w.syncAllLocked()
	nt, np, err := op(w.tree, p)
	if err != nil {
		w.mu.Unlock()
		return "", w.fail(err)
	}
	if np == p {
		w.mu.Unlock()
		return p, nil
	}
	w.tree = nt
	w.cache.Rename(p, np)
	w.known = relocateKeys(w.known, p, np)
	w.validator.relocateLocked(p, np)
	stopped := w.forgetDebouncersLocked(p)
	w.expanded = relocateKeys(w.expanded, p, np)
	w.expanded = render.ExpandAncestors(w.expanded, np)
	w.relocateTabsLocked(p, np)
	w.mu.Unlock()

	for _, d := range stopped {
		d.Stop()
	}
	w.schedulePersist()
	return np, nil
}

// forgetDebouncersLocked 移除 prefix 下的同步和校验防抖器，由调用方在锁外停止
func (w *Workspace) forgetDebouncersLocked(prefix string) []*helper.Debouncer {
	var out []*helper.Debouncer
	for _, m := range []map[string]*helper.Debouncer{w.syncs, w.checks} {
		for k, d := range m {
			if helper.IsSelfOrDescendant(k, prefix) {
				out = append(out, d)
				delete(m, k)
			}
		}
	}
	return out
}

// ImportFolder 用存储中 root 之下的内容替换整个工作区
//
// 存储同时支持写入时成为后续持久化的目标。
func (w *Workspace) ImportFolder(ctx context.Context, r storage.Reader, root string) (*project.ImportReport, error) {
	tree, report, err := project.Import(ctx, r, root)
	if err != nil {
		w.notify(NoticeError, "Import failed", err)
		return nil, fmt.Errorf("import folder: %w", err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	stopped := w.forgetDebouncersLocked("")
	w.resetLocked(tree)
	w.markKnownLocked(report.Failed...)
	if st, ok := r.(storage.Storage); ok {
		w.storage = st
		w.root = helper.StandardizePath(root)
		// 刚导入的内容与存储一致，不需要回写
		for _, n := range tree.ListAllFiles() {
			w.persisted[n.Path] = hashOf(n.Content)
		}
	}
	w.mu.Unlock()

	for _, d := range stopped {
		d.Stop()
	}
	w.logger.Info("导入完成",
		zap.String("root", root),
		zap.Int("files", report.Files),
		zap.Int("folders", report.Folders),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

// ImportRepository 把远程仓库浅克隆到内存后导入
func (w *Workspace) ImportRepository(ctx context.Context, url string, opts storage.CloneOptions) (*project.ImportReport, error) {
	fs, err := storage.CloneRepository(ctx, url, opts)
	if err != nil {
		w.notify(NoticeError, "Repository import failed", err)
		return nil, err
	}
	return w.ImportFolder(ctx, fs, "")
}

// resetLocked 替换整棵树并清空派生状态
func (w *Workspace) resetLocked(tree *project.Tree) {
	w.tree = tree
	w.cache.Clear()
	w.dirty = map[string]string{}
	w.known = map[string]bool{}
	w.validator.latest = map[string]uint64{}
	w.validator.diagnostics = map[string][]engine.Diagnostic{}
	w.persisted = map[string]uint64{}
	w.expanded = render.Expanded{}
	w.tabs = nil
	w.activateLocked("", "")
}

// markKnownLocked 把树中除 except 之外的文件标记为内容已确定
func (w *Workspace) markKnownLocked(except ...string) {
	skip := make(map[string]bool, len(except))
	for _, p := range except {
		skip[p] = true
	}
	for _, n := range w.tree.ListAllFiles() {
		if !skip[n.Path] {
			w.known[n.Path] = true
		}
	}
}

func (w *Workspace) forgetKnownLocked(prefix string) {
	for p := range w.known {
		if helper.IsSelfOrDescendant(p, prefix) {
			delete(w.known, p)
		}
	}
}
