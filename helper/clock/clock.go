// Package clock 提供可注入的时间抽象，生产代码使用 Real()，测试使用 Fake()
package clock

import "time"

// Clock 抽象了防抖、采样等依赖时间的操作
type Clock interface {
	// Now 返回当前时间
	Now() time.Time
	// AfterFunc 在 d 之后调用 f
	AfterFunc(d time.Duration, f func()) *Timer
	// NewTicker 返回按 d 间隔触发的 Ticker
	NewTicker(d time.Duration) *Ticker
}

// Timer 是 AfterFunc 返回的句柄
type Timer struct {
	stopFunc func() bool
}

// Stop 阻止回调执行，返回 true 表示成功阻止
func (t *Timer) Stop() bool { return t.stopFunc() }

// Ticker 周期性地向 C 发送时间
type Ticker struct {
	C        <-chan time.Time
	stopFunc func()
}

// Stop 停止 Ticker
func (t *Ticker) Stop() { t.stopFunc() }

type realClock struct{}

// Real 返回基于标准库的时钟
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}

func (realClock) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stopFunc: t.Stop}
}
