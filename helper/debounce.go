package helper

import (
	"sync"
	"time"

	"github.com/sjzsdu/workbench/helper/clock"
)

// Debouncer 合并短时间内的多次触发，只在最后一次触发后 delay 执行一次
type Debouncer struct {
	clock   clock.Clock
	delay   time.Duration
	mu      sync.Mutex
	timer   *clock.Timer
	pending func()
	stopped bool
}

// NewDebouncer 创建防抖器，clk 为空时使用真实时钟
func NewDebouncer(clk clock.Clock, delay time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.Real()
	}
	return &Debouncer{clock: clk, delay: delay}
}

// Trigger 重新计时，delay 之后执行 fn；之前尚未执行的 fn 被丢弃
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush 立即执行尚未触发的回调，没有待执行回调时返回 false
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending 判断是否有待执行的回调
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop 取消待执行的回调，之后的 Trigger 不再生效
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
