// Package dispatch 实现后台任务调度：固定数量的 worker、FIFO 队列和按 ID 匹配的应答
//
// 每个 worker 是一个独立的 goroutine，拥有自己的 engine.Processor，只通过 channel 接收任务副本。
// 没有 worker 时所有请求在调用方同步得到降级结果，返回的 Pending 与池化模式完全相同。
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/share"
	"go.uber.org/zap"
)

// Options 调度器配置
type Options struct {
	// Workers 小于 0 时为 min(2, CPU 数)，等于 0 时不启动 worker，全部走降级路径
	Workers int
	// Timeout 单个任务的超时时间，超时的 worker 被替换
	Timeout time.Duration
	// NewHandler 为每个 worker 创建处理器，默认 engine.NewProcessor
	NewHandler func() engine.Handler
	// WorkerKinds 第 i 个 worker 接受的任务类型，缺省时接受所有类型
	WorkerKinds [][]engine.Kind
	Clock       clock.Clock
	Logger      *zap.Logger
	Registry    *prometheus.Registry
}

// Stats 调度器当前状态
type Stats struct {
	Workers  int
	Busy     int
	Queued   int
	Fallback bool
}

type job struct {
	task    Task
	ctx     context.Context
	pending *Pending
	timer   *clock.Timer
}

type worker struct {
	id      int
	accepts map[engine.Kind]bool // 为空时接受所有类型
	in      chan *job
	current *job
	retired bool
}

func (w *worker) accept(kind engine.Kind) bool {
	return w.accepts == nil || w.accepts[kind]
}

// Dispatcher 后台任务调度器
type Dispatcher struct {
	timeout    time.Duration
	newHandler func() engine.Handler
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *metrics

	nextID atomic.Uint64

	mu       sync.Mutex
	workers  []*worker
	queue    []*job
	closed   bool
	fallback bool
	workerID int
}

// DefaultWorkers 返回默认 worker 数量 min(2, CPU 数)
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > share.MAX_WORKERS {
		n = share.MAX_WORKERS
	}
	if n < 1 {
		n = 1
	}
	return n
}

// New 创建调度器并启动 worker
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		timeout:    opts.Timeout,
		newHandler: opts.NewHandler,
		clock:      opts.Clock,
		logger:     opts.Logger,
		metrics:    newMetrics(opts.Registry),
	}
	if d.timeout <= 0 {
		d.timeout = share.TASK_TIMEOUT
	}
	if d.newHandler == nil {
		d.newHandler = func() engine.Handler { return engine.NewProcessor() }
	}
	if d.clock == nil {
		d.clock = clock.Real()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	size := opts.Workers
	if size < 0 {
		size = DefaultWorkers()
	}
	if size == 0 {
		d.fallback = true
		d.logger.Info("后台 worker 未启用，使用降级模式")
		return d
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < size; i++ {
		var kinds []engine.Kind
		if i < len(opts.WorkerKinds) {
			kinds = opts.WorkerKinds[i]
		}
		d.spawn(kindSet(kinds))
	}
	d.updateGauges()
	return d
}

func kindSet(kinds []engine.Kind) map[engine.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[engine.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Registry 返回调度器的指标注册表
func (d *Dispatcher) Registry() *prometheus.Registry {
	return d.metrics.registry
}

// Stats 返回当前状态
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{Workers: len(d.workers), Busy: d.busy(), Queued: len(d.queue), Fallback: d.fallback}
}

// Submit 提交任务，总是返回一个最终会完成的 Pending
func (d *Dispatcher) Submit(ctx context.Context, kind engine.Kind, payload engine.Request) *Pending {
	if ctx == nil {
		ctx = context.Background()
	}
	payload.Kind = kind
	id := d.nextID.Add(1)
	p := newPending(id, kind)
	label := kind.String()
	d.metrics.submitted.WithLabelValues(label).Inc()

	if err := ctx.Err(); err != nil {
		d.reject(p, err)
		return p
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.reject(p, ErrClosed)
		return p
	}
	if d.fallback || !d.served(kind) {
		d.mu.Unlock()
		d.metrics.fallback.WithLabelValues(label).Inc()
		p.resolve(engine.Fallback(payload), nil)
		return p
	}

	j := &job{task: Task{ID: id, Kind: kind, Payload: payload}, ctx: ctx, pending: p}
	if w := d.idleFor(kind); w != nil {
		d.assign(w, j)
	} else {
		d.queue = append(d.queue, j)
		d.logger.Debug("任务进入队列", zap.Uint64("id", id), zap.Stringer("kind", kind), zap.Int("queued", len(d.queue)))
	}
	d.updateGauges()
	d.mu.Unlock()
	return p
}

// Validate 提交校验任务并等待结果
func (d *Dispatcher) Validate(ctx context.Context, path, language, content string) (engine.ValidationResult, error) {
	resp, err := d.Submit(ctx, engine.KindValidate, engine.Request{Path: path, Language: language, Content: content}).Wait(ctx)
	return resp.Validation, err
}

// Format 提交格式化任务并等待结果
func (d *Dispatcher) Format(ctx context.Context, path, language, content string) (string, error) {
	resp, err := d.Submit(ctx, engine.KindFormat, engine.Request{Path: path, Language: language, Content: content}).Wait(ctx)
	return resp.Formatted, err
}

// Symbols 提交符号提取任务并等待结果
func (d *Dispatcher) Symbols(ctx context.Context, path, language, content string) (engine.Symbols, error) {
	resp, err := d.Submit(ctx, engine.KindExtractSymbols, engine.Request{Path: path, Language: language, Content: content}).Wait(ctx)
	return resp.Symbols, err
}

// Close 关闭调度器，排队中和执行中的任务都以 ErrClosed 结束
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true

	rejected := d.queue
	d.queue = nil
	for _, w := range d.workers {
		w.retired = true
		if w.current != nil {
			if w.current.timer != nil {
				w.current.timer.Stop()
			}
			rejected = append(rejected, w.current)
			w.current = nil
		}
		close(w.in)
	}
	d.workers = nil
	d.updateGauges()
	d.mu.Unlock()

	for _, j := range rejected {
		d.reject(j.pending, ErrClosed)
	}
	return nil
}

// spawn 启动一个 worker，调用方需持有锁
func (d *Dispatcher) spawn(accepts map[engine.Kind]bool) *worker {
	d.workerID++
	w := &worker{id: d.workerID, accepts: accepts, in: make(chan *job, 1)}
	d.workers = append(d.workers, w)
	go d.run(w, d.newHandler())
	return w
}

func (d *Dispatcher) run(w *worker, h engine.Handler) {
	defer func() {
		if c, ok := h.(interface{ Close() }); ok {
			c.Close()
		}
	}()
	for j := range w.in {
		resp, err := execute(h, j)
		if !d.finish(w, j, resp, err) {
			return
		}
	}
}

func execute(h engine.Handler, j *job) (resp engine.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return h.Handle(j.ctx, j.task.Payload)
}

// finish 处理 worker 的应答，worker 已被淘汰时丢弃应答并返回 false
func (d *Dispatcher) finish(w *worker, j *job, resp engine.Response, err error) bool {
	d.mu.Lock()
	if w.retired || w.current != j {
		d.mu.Unlock()
		d.logger.Debug("丢弃过期应答", zap.Uint64("id", j.task.ID), zap.Int("worker", w.id))
		return false
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	w.current = nil
	dropped := d.drain(w)
	d.updateGauges()
	d.mu.Unlock()

	label := j.task.Kind.String()
	if err != nil {
		d.metrics.rejected(label, err)
		d.logger.Debug("任务失败", zap.Uint64("id", j.task.ID), zap.Error(err))
	} else {
		d.metrics.completed.WithLabelValues(label).Inc()
	}
	j.pending.resolve(resp, err)
	d.rejectCancelled(dropped)
	return true
}

// expire 处理超时：拒绝任务，淘汰卡住的 worker 并补充一个新的
func (d *Dispatcher) expire(w *worker, j *job) {
	d.mu.Lock()
	if w.retired || w.current != j {
		d.mu.Unlock()
		return
	}
	w.retired = true
	w.current = nil
	close(w.in)
	for i, x := range d.workers {
		if x == w {
			d.workers = append(d.workers[:i:i], d.workers[i+1:]...)
			break
		}
	}

	var dropped []*job
	if !d.closed {
		nw := d.spawn(w.accepts)
		dropped = d.drain(nw)
	}
	d.updateGauges()
	d.mu.Unlock()

	d.logger.Warn("任务超时，替换 worker", zap.Uint64("id", j.task.ID), zap.Int("worker", w.id), zap.Duration("timeout", d.timeout))
	d.metrics.timedOut.WithLabelValues(j.task.Kind.String()).Inc()
	d.reject(j.pending, ErrTimeout)
	d.rejectCancelled(dropped)
}

// drain 为空闲的 w 从队列中取出第一个它接受的任务，已取消的任务被一并取出返回
func (d *Dispatcher) drain(w *worker) []*job {
	var dropped []*job
	for i := 0; i < len(d.queue); {
		j := d.queue[i]
		if !w.accept(j.task.Kind) {
			i++
			continue
		}
		d.queue = append(d.queue[:i:i], d.queue[i+1:]...)
		if j.ctx.Err() != nil {
			dropped = append(dropped, j)
			continue
		}
		d.assign(w, j)
		break
	}
	return dropped
}

// assign 把任务交给空闲 worker，调用方需持有锁
func (d *Dispatcher) assign(w *worker, j *job) {
	w.current = j
	j.timer = d.clock.AfterFunc(d.timeout, func() { d.expire(w, j) })
	w.in <- j
	d.logger.Debug("分配任务", zap.Uint64("id", j.task.ID), zap.Stringer("kind", j.task.Kind), zap.Int("worker", w.id))
}

func (d *Dispatcher) idleFor(kind engine.Kind) *worker {
	for _, w := range d.workers {
		if w.current == nil && w.accept(kind) {
			return w
		}
	}
	return nil
}

func (d *Dispatcher) served(kind engine.Kind) bool {
	for _, w := range d.workers {
		if w.accept(kind) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) busy() int {
	n := 0
	for _, w := range d.workers {
		if w.current != nil {
			n++
		}
	}
	return n
}

func (d *Dispatcher) updateGauges() {
	d.metrics.queued.Set(float64(len(d.queue)))
	d.metrics.busy.Set(float64(d.busy()))
	d.metrics.workers.Set(float64(len(d.workers)))
}

func (d *Dispatcher) reject(p *Pending, err error) {
	d.metrics.rejected(p.kind.String(), err)
	p.resolve(engine.Response{Kind: p.kind}, err)
}

func (d *Dispatcher) rejectCancelled(jobs []*job) {
	for _, j := range jobs {
		d.reject(j.pending, j.ctx.Err())
	}
}
