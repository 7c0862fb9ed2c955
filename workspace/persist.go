package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjzsdu/workbench/project"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// DefaultSnapshotName 未关联项目记录时使用的快照名称
const DefaultSnapshotName = "workspace"

// remover 是存储可选支持的删除能力
type remover interface {
	Remove(ctx context.Context, path string) error
}

type write struct {
	path        string // 树中的路径
	storagePath string
	text        string
	sum         uint64
}

// schedulePersist 在最后一次修改之后延迟持久化，失败只记录日志
func (w *Workspace) schedulePersist() {
	w.persist.Trigger(func() {
		if err := w.Persist(w.ctx); err != nil {
			w.logger.Warn("持久化失败", zap.Error(err))
		}
	})
}

// Persist 保存快照并把内容有变化的文件写入存储
func (w *Workspace) Persist(ctx context.Context) error {
	w.mu.Lock()
	w.syncAllLocked()
	tree := w.tree
	st := w.storage
	snapshots := w.snapshots
	name := w.snapshotNameLocked()

	var writes []write
	var removed []string
	live := map[string]bool{}
	for _, n := range tree.ListAllFiles() {
		live[n.Path] = true
		sum := hashOf(n.Content)
		if prev, ok := w.persisted[n.Path]; ok && prev == sum {
			continue
		}
		writes = append(writes, write{path: n.Path, storagePath: w.storagePath(n.Path), text: n.Content, sum: sum})
	}
	for p := range w.persisted {
		if !live[p] {
			removed = append(removed, w.storagePath(p))
			delete(w.persisted, p)
		}
	}
	w.mu.Unlock()

	var errs []error
	if snapshots != nil {
		snap := tree.Snapshot()
		snap.Name = name
		if err := snapshots.Set(name, snap); err != nil {
			errs = append(errs, fmt.Errorf("save snapshot: %w", err))
		}
	}
	if st == nil {
		return errors.Join(errs...)
	}

	if r, ok := st.(remover); ok {
		for _, p := range removed {
			if err := r.Remove(ctx, p); err != nil {
				w.logger.Debug("删除存储文件失败", zap.String("path", p), zap.Error(err))
			}
		}
	}

	written := make([]write, 0, len(writes))
	for _, wr := range writes {
		if err := st.Write(ctx, wr.storagePath, wr.text); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", wr.storagePath, err))
			continue
		}
		written = append(written, wr)
	}

	w.mu.Lock()
	for _, wr := range written {
		w.persisted[wr.path] = wr.sum
	}
	w.mu.Unlock()

	w.logger.Debug("持久化完成", zap.Int("written", len(written)), zap.Int("removed", len(removed)))
	return errors.Join(errs...)
}

// Restore 用本地快照替换当前树，快照不存在时返回错误
func (w *Workspace) Restore() error {
	w.mu.Lock()
	snapshots := w.snapshots
	name := w.snapshotNameLocked()
	w.mu.Unlock()
	if snapshots == nil {
		return ErrNoSnapshots
	}

	var snap project.Snapshot
	if _, err := snapshots.Get(name, &snap); err != nil {
		return fmt.Errorf("load snapshot %s: %w", name, err)
	}
	tree, err := project.FromSnapshot(snap)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked(tree)
	w.markKnownLocked()
	return nil
}

func (w *Workspace) snapshotNameLocked() string {
	if w.record != nil && w.record.ID != "" {
		return w.record.ID
	}
	return DefaultSnapshotName
}

// hashOf 是内容指纹，用于跳过没有变化的写入
func hashOf(text string) uint64 {
	return xxh3.HashString(text)
}
