package workspace

import (
	"context"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/render"
)

// Tab 是一个打开的标签页
type Tab struct {
	Path             string
	DisplayName      string
	LastKnownContent string
}

// Tabs 按打开顺序返回标签页
func (w *Workspace) Tabs() []Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Tab(nil), w.tabs...)
}

// ActiveFile 返回当前文件，没有时 ok 为 false
func (w *Workspace) ActiveFile() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active, w.active != ""
}

// OpenFile 打开文件并设为当前文件，已打开时只切换
func (w *Workspace) OpenFile(ctx context.Context, p string) error {
	p, err := project.NormalizePath(p)
	if err != nil {
		return w.fail(err)
	}
	text, err := w.Content(ctx, p)
	if err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if !w.tree.Exists(p) {
		w.mu.Unlock()
		return w.fail(&project.PathError{Op: "open", Path: p, Err: project.ErrNotFound})
	}
	if i := w.tabIndexLocked(p); i < 0 {
		w.tabs = append(w.tabs, Tab{Path: p, LastKnownContent: text})
		w.relabelLocked()
	} else {
		text = w.tabs[i].LastKnownContent
	}
	w.activateLocked(p, text)
	w.mu.Unlock()
	return nil
}

// SelectFile 在树中选中文件：展开祖先、打开文件并滚动到可见位置
func (w *Workspace) SelectFile(ctx context.Context, p string) error {
	if err := w.OpenFile(ctx, p); err != nil {
		return err
	}
	w.mu.Lock()
	p = helper.StandardizePath(p)
	w.expanded = render.ExpandAncestors(w.expanded, p)
	rows := render.Flatten(w.tree, w.expanded)
	w.mu.Unlock()

	w.viewport.Reveal(render.IndexOf(rows, p), len(rows))
	return nil
}

// CloseTab 关闭标签页；关闭当前文件时切换到右侧标签，没有则左侧，最后一个关闭后没有当前文件
func (w *Workspace) CloseTab(p string) error {
	p = helper.StandardizePath(p)
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.tabIndexLocked(p)
	if i < 0 {
		return &project.PathError{Op: "close", Path: p, Err: project.ErrNotFound}
	}
	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	w.relabelLocked()
	if w.active != p {
		return nil
	}
	if len(w.tabs) == 0 {
		w.activateLocked("", "")
		return nil
	}
	next := w.tabs[min(i, len(w.tabs)-1)]
	w.activateLocked(next.Path, next.LastKnownContent)
	return nil
}

func (w *Workspace) tabIndexLocked(p string) int {
	for i, t := range w.tabs {
		if t.Path == p {
			return i
		}
	}
	return -1
}

// activateLocked 切换当前文件并刷新编辑器，p 为空表示没有当前文件
func (w *Workspace) activateLocked(p, text string) {
	w.active = p
	if w.editor == nil {
		return
	}
	w.editor.SetValue(text)
	w.editor.SetMarkers(MarkerSource, markers(w.validator.diagnostics[p]))
}

// relabelLocked 重名的标签显示完整路径
func (w *Workspace) relabelLocked() {
	count := map[string]int{}
	for _, t := range w.tabs {
		count[helper.BaseName(t.Path)]++
	}
	for i := range w.tabs {
		name := helper.BaseName(w.tabs[i].Path)
		if count[name] > 1 {
			name = w.tabs[i].Path
		}
		w.tabs[i].DisplayName = name
	}
}

// dropTabsLocked 关闭 prefix 及其后代的标签页，返回当前文件是否被关闭
func (w *Workspace) dropTabsLocked(prefix string) bool {
	kept := w.tabs[:0]
	for _, t := range w.tabs {
		if !helper.IsSelfOrDescendant(t.Path, prefix) {
			kept = append(kept, t)
		}
	}
	w.tabs = kept
	w.relabelLocked()
	return w.active != "" && helper.IsSelfOrDescendant(w.active, prefix)
}

// relocateTabsLocked 改写 oldPrefix 下标签页和当前文件的路径
func (w *Workspace) relocateTabsLocked(oldPrefix, newPrefix string) {
	for i := range w.tabs {
		if helper.IsSelfOrDescendant(w.tabs[i].Path, oldPrefix) {
			w.tabs[i].Path = helper.ReplacePrefix(w.tabs[i].Path, oldPrefix, newPrefix)
		}
	}
	w.relabelLocked()
	if w.active != "" && helper.IsSelfOrDescendant(w.active, oldPrefix) {
		w.active = helper.ReplacePrefix(w.active, oldPrefix, newPrefix)
	}
}

// Rows 返回树的可见行
func (w *Workspace) Rows() []render.Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	return render.Flatten(w.tree, w.expanded)
}

// Expanded 返回展开集合的副本
func (w *Workspace) Expanded() render.Expanded {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expanded.Clone()
}

// Toggle 展开或折叠文件夹
func (w *Workspace) Toggle(p string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expanded = w.expanded.Toggle(helper.StandardizePath(p))
}

// Viewport 返回树视图的视口
func (w *Workspace) Viewport() *render.Viewport {
	return w.viewport
}

// Window 返回当前滚动位置下需要渲染的行范围
func (w *Workspace) Window() render.Window {
	return w.viewport.Window(len(w.Rows()))
}
