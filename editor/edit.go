package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOutOfRange 编辑位置超出文本
	ErrOutOfRange = errors.New("editor: position out of range")
	// ErrNothingToUndo 没有可撤销的操作
	ErrNothingToUndo = errors.New("editor: nothing to undo")
	// ErrNothingToRedo 没有可重做的操作
	ErrNothingToRedo = errors.New("editor: nothing to redo")
)

// TextEdit 用 NewText 替换 Range，OldText 在应用时记录
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
	OldText string `json:"oldText,omitempty"`
}

// LineEnding 行尾类型
type LineEnding int

const (
	LineEndingLF   LineEnding = iota // \n
	LineEndingCRLF                   // \r\n
	LineEndingCR                     // \r
)

// DetectLineEnding 检测文本使用的行尾
func DetectLineEnding(text string) LineEnding {
	switch {
	case strings.Contains(text, "\r\n"):
		return LineEndingCRLF
	case strings.Contains(text, "\r"):
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// ConvertLineEnding 把文本的行尾统一为 ending
func ConvertLineEnding(text string, ending LineEnding) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	switch ending {
	case LineEndingCRLF:
		return strings.ReplaceAll(text, "\n", "\r\n")
	case LineEndingCR:
		return strings.ReplaceAll(text, "\n", "\r")
	}
	return text
}

func (b *Buffer) check(r Range) error {
	for _, p := range []Position{r.Start, r.End} {
		if p.Line < 0 || p.Line >= len(b.lines) || p.Column < 0 || p.Column > len(b.lines[p.Line]) {
			return fmt.Errorf("%w: %d:%d", ErrOutOfRange, p.Line, p.Column)
		}
	}
	return nil
}

// apply 替换文本并返回新文本的结束位置，调用方需持有锁
func (b *Buffer) apply(r Range, text string) (Position, error) {
	r = r.Normalize()
	if err := b.check(r); err != nil {
		return Position{}, err
	}
	head := b.lines[r.Start.Line][:r.Start.Column]
	tail := b.lines[r.End.Line][r.End.Column:]
	inserted := splitLines(head + text + tail)

	lines := make([]string, 0, len(b.lines)-(r.End.Line-r.Start.Line)+len(inserted)-1)
	lines = append(lines, b.lines[:r.Start.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[r.End.Line+1:]...)
	b.lines = lines

	endLine := r.Start.Line + len(inserted) - 1
	endCol := len(inserted[len(inserted)-1]) - len(tail)
	return Position{Line: endLine, Column: endCol}, nil
}

// ApplyEdit 应用一次编辑并记录撤销历史
func (b *Buffer) ApplyEdit(edit TextEdit) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.applyRecorded(edit); err != nil {
		return err
	}
	b.redo = nil
	b.notify()
	return nil
}

func (b *Buffer) applyRecorded(edit TextEdit) error {
	edit.Range = edit.Range.Normalize()
	old, err := b.textIn(edit.Range)
	if err != nil {
		return err
	}
	end, err := b.apply(edit.Range, edit.NewText)
	if err != nil {
		return err
	}
	edit.OldText = old
	b.undo = append(b.undo, edit)
	b.selections = []Range{{Start: end, End: end}}
	return nil
}

// ApplyEdits 从后向前应用多个编辑，避免位置互相影响
func (b *Buffer) ApplyEdits(edits []TextEdit) error {
	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Range.Normalize().Start.Before(sorted[i].Range.Normalize().Start)
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range sorted {
		if err := b.applyRecorded(e); err != nil {
			return err
		}
	}
	b.redo = nil
	if len(sorted) > 0 {
		b.notify()
	}
	return nil
}

// Insert 在位置插入文本
func (b *Buffer) Insert(line, column int, text string) error {
	return b.ApplyEdit(TextEdit{Range: Cursor(line, column), NewText: text})
}

// Type 在每个光标处输入文本，选中的内容被替换
func (b *Buffer) Type(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sels := make([]Range, len(b.selections))
	for i, r := range b.selections {
		sels[i] = r.Normalize()
		if err := b.check(sels[i]); err != nil {
			return err
		}
	}
	sort.Slice(sels, func(i, j int) bool { return sels[i].Start.Before(sels[j].Start) })

	starts := make([]int, len(sels))
	removed := make([]int, len(sels))
	for i, r := range sels {
		starts[i] = b.offsetOf(r.Start)
		removed[i] = b.offsetOf(r.End) - starts[i]
	}
	for i := len(sels) - 1; i >= 0; i-- {
		if err := b.applyRecorded(TextEdit{Range: sels[i], NewText: text}); err != nil {
			return err
		}
	}

	cursors := make([]Range, len(sels))
	delta := 0
	for i := range sels {
		p := b.positionAt(starts[i] + delta + len(text))
		cursors[i] = Range{Start: p, End: p}
		delta += len(text) - removed[i]
	}
	b.selections = cursors
	b.redo = nil
	b.notify()
	return nil
}

// offsetOf 把位置转换为字节偏移
func (b *Buffer) offsetOf(p Position) int {
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(b.lines[i]) + 1
	}
	return off + p.Column
}

// positionAt 把字节偏移转换为位置
func (b *Buffer) positionAt(off int) Position {
	for i, l := range b.lines {
		if off <= len(l) {
			return Position{Line: i, Column: off}
		}
		off -= len(l) + 1
	}
	last := len(b.lines) - 1
	return Position{Line: last, Column: len(b.lines[last])}
}

// Undo 撤销最近一次编辑
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.undo) == 0 {
		return ErrNothingToUndo
	}
	last := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]

	end := endOf(last.Range.Start, last.NewText)
	if _, err := b.apply(Range{Start: last.Range.Start, End: end}, last.OldText); err != nil {
		return err
	}
	b.redo = append(b.redo, last)
	b.selections = []Range{{Start: last.Range.Start, End: endOf(last.Range.Start, last.OldText)}}
	b.notify()
	return nil
}

// Redo 重做最近一次撤销的编辑
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.redo) == 0 {
		return ErrNothingToRedo
	}
	last := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]

	end, err := b.apply(last.Range, last.NewText)
	if err != nil {
		return err
	}
	b.undo = append(b.undo, last)
	b.selections = []Range{{Start: end, End: end}}
	b.notify()
	return nil
}

// endOf 返回从 start 插入 text 之后的结束位置
func endOf(start Position, text string) Position {
	n := strings.Count(text, "\n")
	if n == 0 {
		return Position{Line: start.Line, Column: start.Column + len(text)}
	}
	return Position{Line: start.Line + n, Column: len(text) - strings.LastIndex(text, "\n") - 1}
}
