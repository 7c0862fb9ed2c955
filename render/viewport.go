package render

import (
	"sync"
	"time"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/share"
)

// Viewport 保存滚动状态，滚动请求经过防抖后才生效
type Viewport struct {
	mu        sync.Mutex
	height    int
	rowHeight int
	buffer    int
	offset    int
	debounce  *helper.Debouncer
	onChange  func(offset int)
}

// ViewportOptions 视口参数，RowHeight、Buffer 和 Delay 为零时使用默认值
type ViewportOptions struct {
	Height    int
	RowHeight int
	// Buffer 可视区域上下额外渲染的行数，为负时不额外渲染
	Buffer    int
	Delay     time.Duration
	Clock     clock.Clock
}

// NewViewport 创建视口
func NewViewport(opts ViewportOptions) *Viewport {
	if opts.RowHeight <= 0 {
		opts.RowHeight = share.ROW_HEIGHT
	}
	switch {
	case opts.Buffer == 0:
		opts.Buffer = share.ROW_BUFFER
	case opts.Buffer < 0:
		opts.Buffer = 0
	}
	if opts.Delay <= 0 {
		opts.Delay = share.SCROLL_DELAY
	}
	return &Viewport{
		height:    opts.Height,
		rowHeight: opts.RowHeight,
		buffer:    opts.Buffer,
		debounce:  helper.NewDebouncer(opts.Clock, opts.Delay),
	}
}

// OnChange 注册偏移生效时的回调
func (v *Viewport) OnChange(fn func(offset int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// ScrollTo 请求滚动到 offset，防抖结束后生效
func (v *Viewport) ScrollTo(offset int) {
	v.debounce.Trigger(func() { v.apply(offset) })
}

// Flush 立即应用尚未生效的滚动
func (v *Viewport) Flush() bool {
	return v.debounce.Flush()
}

// Offset 返回当前生效的偏移
func (v *Viewport) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Height 返回容器高度
func (v *Viewport) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// Resize 修改容器高度
func (v *Viewport) Resize(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if height < 0 {
		height = 0
	}
	v.height = height
}

// Window 按当前偏移计算渲染区间
func (v *Viewport) Window(rowCount int) Window {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ComputeWindow(rowCount, v.offset, v.height, v.rowHeight, v.buffer)
}

// Reveal 立即滚动到能看见第 index 行的最近位置
func (v *Viewport) Reveal(index, rowCount int) {
	v.mu.Lock()
	top := index * v.rowHeight
	bottom := top + v.rowHeight
	offset := v.offset
	switch {
	case top < offset:
		offset = top
	case bottom > offset+v.height:
		offset = bottom - v.height
	}
	v.mu.Unlock()
	v.apply(clamp(offset, 0, MaxOffset(rowCount, v.Height(), v.rowHeight)))
}

// Stop 取消尚未生效的滚动
func (v *Viewport) Stop() {
	v.debounce.Stop()
}

func (v *Viewport) apply(offset int) {
	if offset < 0 {
		offset = 0
	}
	v.mu.Lock()
	changed := offset != v.offset
	v.offset = offset
	fn := v.onChange
	v.mu.Unlock()
	if changed && fn != nil {
		fn(offset)
	}
}
