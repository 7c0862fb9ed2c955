package workspace

import (
	"context"
	"errors"

	"github.com/sjzsdu/workbench/dispatch"
	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	"go.uber.org/zap"
)

// MarkerSource 校验结果在编辑器中的标记来源
const MarkerSource = "validator"

// ValidationStats 校验请求统计
type ValidationStats struct {
	Submitted int
	Applied   int
	Stale     int // 被更新的请求取代而丢弃的应答
	Failed    int
}

type validator struct {
	seq         uint64
	latest      map[string]uint64 // 每个路径最近一次提交的序号
	diagnostics map[string][]engine.Diagnostic
	stats       ValidationStats
}

func newValidator() validator {
	return validator{
		latest:      map[string]uint64{},
		diagnostics: map[string][]engine.Diagnostic{},
	}
}

// checkerLocked 返回路径的校验防抖器，无法识别语言的文件不校验
func (w *Workspace) checkerLocked(p string) *helper.Debouncer {
	if helper.LanguageOf(p) == "" {
		return nil
	}
	return w.debouncerLocked(w.checks, p, w.settings.ValidateDelay)
}

// submitValidation 提交当前内容，应答在后台 goroutine 中处理
func (w *Workspace) submitValidation(p string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	text, ok, err := w.lookupLocked(p)
	if err != nil {
		w.mu.Unlock()
		return
	}
	if !ok {
		text = ""
	}
	w.validator.seq++
	seq := w.validator.seq
	w.validator.latest[p] = seq
	w.validator.stats.Submitted++
	w.wg.Add(1)
	w.mu.Unlock()

	pending := w.dispatch.Submit(w.ctx, engine.KindValidate, engine.Request{
		Path:     p,
		Language: helper.LanguageOf(p),
		Content:  text,
	})
	go func() {
		defer w.wg.Done()
		resp, err := pending.Wait(w.ctx)
		w.applyValidation(p, seq, resp.Validation, err)
	}()
}

// Validate 立即校验文件并等待结果，结果同样会成为编辑器标记
func (w *Workspace) Validate(ctx context.Context, p string) (engine.ValidationResult, error) {
	p, err := project.NormalizePath(p)
	if err != nil {
		return engine.ValidationResult{}, w.fail(err)
	}
	text, err := w.Content(ctx, p)
	if err != nil {
		return engine.ValidationResult{}, w.fail(err)
	}

	w.mu.Lock()
	w.validator.seq++
	seq := w.validator.seq
	w.validator.latest[p] = seq
	w.validator.stats.Submitted++
	w.mu.Unlock()

	res, err := w.dispatch.Validate(ctx, p, helper.LanguageOf(p), text)
	w.applyValidation(p, seq, res, err)
	return res, err
}

// applyValidation 只接受路径上最近一次提交的应答
func (w *Workspace) applyValidation(p string, seq uint64, res engine.ValidationResult, err error) {
	w.mu.Lock()
	if err != nil {
		w.validator.stats.Failed++
		w.mu.Unlock()
		if !errors.Is(err, context.Canceled) && !errors.Is(err, dispatch.ErrClosed) {
			w.logger.Warn("校验失败", zap.String("path", p), zap.Error(err))
		}
		return
	}
	if w.validator.latest[p] != seq {
		w.validator.stats.Stale++
		w.mu.Unlock()
		w.logger.Debug("丢弃过期的校验结果", zap.String("path", p), zap.Uint64("seq", seq))
		return
	}
	w.validator.stats.Applied++
	w.validator.diagnostics[p] = res.Errors
	ed := w.editor
	active := w.active == p
	w.mu.Unlock()

	if active && ed != nil {
		ed.SetMarkers(MarkerSource, markers(res.Errors))
	}
}

// Diagnostics 返回文件最近一次被接受的校验问题
func (w *Workspace) Diagnostics(p string) []engine.Diagnostic {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]engine.Diagnostic(nil), w.validator.diagnostics[p]...)
}

// ValidationStats 返回校验统计
func (w *Workspace) ValidationStats() ValidationStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validator.stats
}

func markers(diags []engine.Diagnostic) []editor.Marker {
	ms := make([]editor.Marker, 0, len(diags))
	for _, d := range diags {
		ms = append(ms, editor.Marker{
			Line:     d.Line,
			Column:   1,
			Message:  d.Message,
			Severity: string(d.Severity),
		})
	}
	return ms
}

// forgetLocked 删除路径及其后代的校验状态
func (v *validator) forgetLocked(prefix string) {
	for p := range v.latest {
		if helper.IsSelfOrDescendant(p, prefix) {
			delete(v.latest, p)
		}
	}
	for p := range v.diagnostics {
		if helper.IsSelfOrDescendant(p, prefix) {
			delete(v.diagnostics, p)
		}
	}
}

// relocateLocked 把路径及其后代的校验状态移到新前缀下
func (v *validator) relocateLocked(oldPrefix, newPrefix string) {
	v.latest = relocateKeys(v.latest, oldPrefix, newPrefix)
	v.diagnostics = relocateKeys(v.diagnostics, oldPrefix, newPrefix)
}

func relocateKeys[V any](m map[string]V, oldPrefix, newPrefix string) map[string]V {
	out := make(map[string]V, len(m))
	for p, v := range m {
		if helper.IsSelfOrDescendant(p, oldPrefix) {
			p = helper.ReplacePrefix(p, oldPrefix, newPrefix)
		}
		out[p] = v
	}
	return out
}
