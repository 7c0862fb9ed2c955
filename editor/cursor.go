package editor

// Selection 返回主选区
func (b *Buffer) Selection() Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selections[0]
}

// Selections 返回所有选区
func (b *Buffer) Selections() []Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Range(nil), b.selections...)
}

// SetSelection 设置唯一的选区，越界的位置被裁剪
func (b *Buffer) SetSelection(r Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = []Range{{Start: b.clampPos(r.Start), End: b.clampPos(r.End)}}
}

// SelectAll 选中全部文本
func (b *Buffer) SelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	last := len(b.lines) - 1
	b.selections = []Range{{End: Position{Line: last, Column: len(b.lines[last])}}}
}

// AddCursorAbove 在最上方光标的上一行添加光标
func (b *Buffer) AddCursorAbove() bool {
	return b.addCursor(-1)
}

// AddCursorBelow 在最下方光标的下一行添加光标
func (b *Buffer) AddCursorBelow() bool {
	return b.addCursor(1)
}

func (b *Buffer) addCursor(dir int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	edge := b.selections[0].End
	for _, s := range b.selections[1:] {
		if (dir < 0 && s.End.Line < edge.Line) || (dir > 0 && s.End.Line > edge.Line) {
			edge = s.End
		}
	}
	line := edge.Line + dir
	if line < 0 || line >= len(b.lines) {
		return false
	}
	p := b.clampPos(Position{Line: line, Column: edge.Column})
	b.selections = append(b.selections, Range{Start: p, End: p})
	return true
}
