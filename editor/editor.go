// Package editor 提供编辑器控件能力的无界面实现
//
// 工作区只依赖 Widget 接口；Buffer 用于命令行、MCP 服务和测试。
package editor

import (
	"strings"
	"sync"
)

// Position 文本中的位置，行列都从 0 开始
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before 判断 p 是否在 o 之前
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Column < o.Column)
}

// Range 文本范围，End 不包含在内
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Empty 判断范围是否为空（只是一个光标）
func (r Range) Empty() bool { return r.Start == r.End }

// Normalize 保证 Start 不在 End 之后
func (r Range) Normalize() Range {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Cursor 返回位于 p 的空范围
func Cursor(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}

// Marker 编辑器中的标记，Line 从 1 开始
type Marker struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Widget 是工作区使用的编辑器能力
type Widget interface {
	Value() string
	SetValue(text string)
	SetMarkers(source string, markers []Marker)
	RevealPosition(line, column int)
	Selection() Range
	SetSelection(r Range)
}

// Buffer 是 Widget 的内存实现，支持多光标、查找替换和撤销
type Buffer struct {
	mu         sync.Mutex
	lines      []string
	selections []Range // 第一个是主选区
	markers    map[string][]Marker
	revealed   Position
	undo       []TextEdit
	redo       []TextEdit
	onChange   []func(text string)
}

var _ Widget = (*Buffer)(nil)

// NewBuffer 创建编辑缓冲区
func NewBuffer(text string) *Buffer {
	return &Buffer{
		lines:      splitLines(text),
		selections: []Range{Cursor(0, 0)},
		markers:    map[string][]Marker{},
	}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// OnChange 注册文本变化回调，SetValue 不触发
func (b *Buffer) OnChange(fn func(text string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = append(b.onChange, fn)
}

// Value 返回完整文本
func (b *Buffer) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text()
}

func (b *Buffer) text() string {
	return strings.Join(b.lines, "\n")
}

// SetValue 替换全部文本，清空撤销历史并把光标移到开头
func (b *Buffer) SetValue(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = splitLines(text)
	b.selections = []Range{Cursor(0, 0)}
	b.undo, b.redo = nil, nil
}

// SetMarkers 替换某个来源的全部标记
func (b *Buffer) SetMarkers(source string, markers []Marker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(markers) == 0 {
		delete(b.markers, source)
		return
	}
	b.markers[source] = append([]Marker(nil), markers...)
}

// Markers 返回某个来源的标记
func (b *Buffer) Markers(source string) []Marker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Marker(nil), b.markers[source]...)
}

// RevealPosition 滚动到指定位置
func (b *Buffer) RevealPosition(line, column int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revealed = b.clampPos(Position{Line: line, Column: column})
}

// Revealed 返回最近一次滚动到的位置
func (b *Buffer) Revealed() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revealed
}

// LineCount 返回行数
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line 返回第 n 行，越界时返回 false
func (b *Buffer) Line(n int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || n >= len(b.lines) {
		return "", false
	}
	return b.lines[n], true
}

// TextInRange 返回范围内的文本
func (b *Buffer) TextInRange(r Range) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.textIn(r)
}

func (b *Buffer) textIn(r Range) (string, error) {
	r = r.Normalize()
	if err := b.check(r); err != nil {
		return "", err
	}
	if r.Start.Line == r.End.Line {
		return b.lines[r.Start.Line][r.Start.Column:r.End.Column], nil
	}
	parts := []string{b.lines[r.Start.Line][r.Start.Column:]}
	parts = append(parts, b.lines[r.Start.Line+1:r.End.Line]...)
	parts = append(parts, b.lines[r.End.Line][:r.End.Column])
	return strings.Join(parts, "\n"), nil
}

func (b *Buffer) clampPos(p Position) Position {
	p.Line = min(max(p.Line, 0), len(b.lines)-1)
	p.Column = min(max(p.Column, 0), len(b.lines[p.Line]))
	return p
}

func (b *Buffer) notify() {
	text := b.text()
	for _, fn := range b.onChange {
		fn(text)
	}
}
