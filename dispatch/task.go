package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sjzsdu/workbench/engine"
)

var (
	// ErrClosed 调度器已关闭
	ErrClosed = errors.New("dispatch: dispatcher closed")
	// ErrTimeout 任务在限定时间内没有返回
	ErrTimeout = errors.New("dispatch: task timed out")
)

// Task 是一次提交给 worker 的任务，ID 单调递增
type Task struct {
	ID      uint64
	Kind    engine.Kind
	Payload engine.Request
}

// TaskError 表示被拒绝的任务
type TaskError struct {
	ID   uint64
	Kind engine.Kind
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d (%s): %v", e.ID, e.Kind, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Pending 是尚未完成的任务，池化模式和降级模式下行为一致
type Pending struct {
	id   uint64
	kind engine.Kind
	done chan struct{}
	once sync.Once
	resp engine.Response
	err  error
}

func newPending(id uint64, kind engine.Kind) *Pending {
	return &Pending{id: id, kind: kind, done: make(chan struct{})}
}

// ID 返回任务 ID
func (p *Pending) ID() uint64 { return p.id }

// Kind 返回任务类型
func (p *Pending) Kind() engine.Kind { return p.kind }

// Done 在任务完成或被拒绝时关闭
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait 等待任务结果，ctx 结束时返回 ctx.Err()，任务本身不受影响
func (p *Pending) Wait(ctx context.Context) (engine.Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return engine.Response{}, ctx.Err()
	}
}

// resolve 只有第一次调用生效，返回是否生效
func (p *Pending) resolve(resp engine.Response, err error) bool {
	resolved := false
	p.once.Do(func() {
		p.resp = resp
		if err != nil {
			p.err = &TaskError{ID: p.id, Kind: p.kind, Err: err}
		}
		close(p.done)
		resolved = true
	})
	return resolved
}
