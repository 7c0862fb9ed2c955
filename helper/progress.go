package helper

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sjzsdu/workbench/helper/clock"
)

// Progress 单行终端进度条，可以并发调用 Increment
type Progress struct {
	out         io.Writer
	clock       clock.Clock
	total       int
	current     int
	width       int
	title       string
	startTime   time.Time
	mu          sync.Mutex
	finished    bool
	showETA     bool
	showPercent bool
}

// ProgressOption 进度条选项
type ProgressOption func(*Progress)

// WithoutETA 不显示预计完成时间
func WithoutETA() ProgressOption {
	return func(p *Progress) {
		p.showETA = false
	}
}

// WithoutPercent 不显示百分比
func WithoutPercent() ProgressOption {
	return func(p *Progress) {
		p.showPercent = false
	}
}

// WithWidth 设置进度条宽度
func WithWidth(width int) ProgressOption {
	return func(p *Progress) {
		if width > 0 {
			p.width = width
		}
	}
}

// WithClock 替换计时用的时钟
func WithClock(c clock.Clock) ProgressOption {
	return func(p *Progress) {
		p.clock = c
	}
}

// NewProgress 创建写入 out 的进度条
func NewProgress(out io.Writer, title string, total int, opts ...ProgressOption) *Progress {
	p := &Progress{
		out:         out,
		clock:       clock.Real(),
		total:       total,
		width:       40,
		title:       title,
		showETA:     true,
		showPercent: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.startTime = p.clock.Now()
	return p
}

// Increment 前进一步
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.current++
	p.render()
}

// Finish 把进度置满并换行，只生效一次
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.current = p.total
	p.finished = true
	p.render()
	fmt.Fprintln(p.out)
}

func (p *Progress) render() {
	if p.total <= 0 {
		return
	}

	percent := min(float64(p.current)/float64(p.total)*100, 100)
	filled := min(int(percent*float64(p.width)/100), p.width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	var line strings.Builder
	fmt.Fprintf(&line, "\r%s [%s]", p.title, bar)
	if p.showPercent {
		fmt.Fprintf(&line, " %.1f%%", percent)
	}
	fmt.Fprintf(&line, " (%d/%d)", p.current, p.total)

	if p.showETA && p.current > 0 {
		elapsed := p.clock.Now().Sub(p.startTime)
		if p.current < p.total {
			// 按平均速度估算
			eta := time.Duration(float64(elapsed) / float64(p.current) * float64(p.total-p.current))
			fmt.Fprintf(&line, " ETA: %s", formatDuration(eta))
		} else {
			fmt.Fprintf(&line, " %s", formatDuration(elapsed))
		}
	}
	fmt.Fprint(p.out, line.String())
}

// formatDuration 格式化时间显示
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		minutes := int(d.Minutes())
		return fmt.Sprintf("%dm%ds", minutes, int(d.Seconds())-minutes*60)
	default:
		hours := int(d.Hours())
		return fmt.Sprintf("%dh%dm", hours, int(d.Minutes())-hours*60)
	}
}
