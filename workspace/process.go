package workspace

import (
	"context"

	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
)

// Format 在后台格式化文件；apply 为 true 且内容有变化时写回工作区
func (w *Workspace) Format(ctx context.Context, p string, apply bool) (string, error) {
	p, text, err := w.source(ctx, p)
	if err != nil {
		return "", err
	}
	formatted, err := w.dispatch.Format(ctx, p, helper.LanguageOf(p), text)
	if err != nil {
		return "", err
	}
	if apply && formatted != text {
		if err := w.UpdateContent(p, formatted); err != nil {
			return formatted, err
		}
		if p == w.activePath() && w.editor != nil {
			w.editor.SetValue(formatted)
		}
	}
	return formatted, nil
}

// Symbols 在后台提取文件中的符号
func (w *Workspace) Symbols(ctx context.Context, p string) (engine.Symbols, error) {
	p, text, err := w.source(ctx, p)
	if err != nil {
		return engine.EmptySymbols(), err
	}
	return w.dispatch.Symbols(ctx, p, helper.LanguageOf(p), text)
}

func (w *Workspace) source(ctx context.Context, p string) (string, string, error) {
	p, err := project.NormalizePath(p)
	if err != nil {
		return "", "", w.fail(err)
	}
	text, err := w.Content(ctx, p)
	if err != nil {
		return "", "", w.fail(err)
	}
	return p, text, nil
}

func (w *Workspace) activePath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}
