package render

// Window 描述当前需要渲染的行区间，End 为闭区间，没有行时 End 为 -1
type Window struct {
	FirstVisible int
	LastVisible  int
	Start        int
	End          int
	TopOffset    int
	TotalHeight  int
}

// Len 返回渲染的行数
func (w Window) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start + 1
}

// Contains 判断第 i 行是否被渲染
func (w Window) Contains(i int) bool {
	return i >= w.Start && i <= w.End
}

// BottomPadding 返回渲染区间之下需要保留的高度
func (w Window) BottomPadding(rowHeight int) int {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	pad := w.TotalHeight - w.TopOffset - w.Len()*rowHeight
	if pad < 0 {
		return 0
	}
	return pad
}

// ComputeWindow 根据滚动位置计算渲染区间
//
// firstVisible = offset / rowHeight，lastVisible = firstVisible + ceil(containerHeight / rowHeight)，
// 两端各加 buffer 行并裁剪到 [0, rowCount-1]。
func ComputeWindow(rowCount, offset, containerHeight, rowHeight, buffer int) Window {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if offset < 0 {
		offset = 0
	}
	if containerHeight < 0 {
		containerHeight = 0
	}
	w := Window{TotalHeight: rowCount * rowHeight, End: -1}
	if rowCount <= 0 {
		w.TotalHeight = 0
		return w
	}

	first := offset / rowHeight
	last := first + (containerHeight+rowHeight-1)/rowHeight
	w.FirstVisible = clamp(first, 0, rowCount-1)
	w.LastVisible = clamp(last, w.FirstVisible, rowCount-1)
	w.Start = clamp(w.FirstVisible-buffer, 0, rowCount-1)
	w.End = clamp(w.LastVisible+buffer, w.Start, rowCount-1)
	w.TopOffset = w.Start * rowHeight
	return w
}

// MaxOffset 返回能够滚动到的最大偏移
func MaxOffset(rowCount, containerHeight, rowHeight int) int {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	m := rowCount*rowHeight - containerHeight
	if m < 0 {
		return 0
	}
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
