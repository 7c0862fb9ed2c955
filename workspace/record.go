package workspace

import (
	"context"
	"fmt"

	"github.com/sjzsdu/workbench/preview"
)

// Milestone 项目里程碑
type Milestone struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// ProjectRecord 是远程保存的项目摘要
type ProjectRecord struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"ownerId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	TechStack   []string    `json:"techStack"`
	Milestones  []Milestone `json:"milestones"`
}

// RecordStore 读取项目记录
type RecordStore interface {
	Fetch(ctx context.Context, id string) (ProjectRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ProjectRecord, error)
}

// AttachProject 关联项目记录，其技术栈用于预览
func (w *Workspace) AttachProject(ctx context.Context, id string) (ProjectRecord, error) {
	if w.records == nil {
		return ProjectRecord{}, w.fail(ErrNoRecords)
	}
	rec, err := w.records.Fetch(ctx, id)
	if err != nil {
		w.notify(NoticeError, "Project record unavailable", err)
		return ProjectRecord{}, fmt.Errorf("fetch project %s: %w", id, err)
	}

	w.mu.Lock()
	w.record = &rec
	w.mu.Unlock()
	return rec, nil
}

// Project 返回已关联的项目记录
func (w *Workspace) Project() (ProjectRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.record == nil {
		return ProjectRecord{}, false
	}
	return *w.record, true
}

// Projects 列出用户的项目
func (w *Workspace) Projects(ctx context.Context, ownerID string) ([]ProjectRecord, error) {
	if w.records == nil {
		return nil, ErrNoRecords
	}
	recs, err := w.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects of %s: %w", ownerID, err)
	}
	return recs, nil
}

// Preview 根据当前树、当前文件和项目技术栈生成预览
func (w *Workspace) Preview(opts ...preview.Option) (preview.Result, error) {
	w.mu.Lock()
	tree := w.tree
	base := []preview.Option{
		preview.WithActive(w.active),
		preview.WithContent(w.Peek),
		preview.WithLogger(w.logger.Named("preview")),
	}
	if w.record != nil {
		base = append(base, preview.WithTechStack(w.record.TechStack...))
	}
	w.mu.Unlock()

	return preview.Build(tree, append(base, opts...)...)
}
