package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/share"
)

// Styles 树视图样式
type Styles struct {
	Folder   lipgloss.Style
	File     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles 默认样式
func DefaultStyles() Styles {
	return Styles{
		Folder:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		File:     lipgloss.NewStyle(),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// scrollMsg 携带序号，只有最后一次滚动请求会生效
type scrollMsg struct{ seq int }

// View 是只渲染可见窗口的终端树视图
type View struct {
	tree     *project.Tree
	expanded Expanded
	rows     []Row
	selected string

	cursor   int
	offset   int
	target   int
	seq      int
	width    int
	height   int
	buffer   int
	delay    time.Duration
	keys     KeyMap
	styles   Styles
	onOpen   func(path string)
	quitting bool
}

// NewView 创建树视图，onOpen 在回车打开文件时调用
func NewView(tree *project.Tree, expanded Expanded, onOpen func(path string)) View {
	if expanded == nil {
		expanded = Expanded{}
	}
	v := View{
		tree:     tree,
		expanded: expanded.Clone(),
		height:   20,
		buffer:   share.ROW_BUFFER,
		delay:    share.SCROLL_DELAY,
		keys:     DefaultKeyMap,
		styles:   DefaultStyles(),
		onOpen:   onOpen,
	}
	v.rows = Flatten(tree, v.expanded)
	return v
}

// WithStyles 替换样式
func (v View) WithStyles(s Styles) View {
	v.styles = s
	return v
}

// WithHeight 设置初始高度，收到窗口尺寸后会被覆盖
func (v View) WithHeight(h int) View {
	if h > 0 {
		v.height = h
	}
	return v
}

// Rows 返回当前可见的行
func (v View) Rows() []Row { return v.rows }

// Cursor 返回光标所在行
func (v View) Cursor() int { return v.cursor }

// Offset 返回当前生效的滚动偏移
func (v View) Offset() int { return v.offset }

// Selected 返回最近一次打开的文件
func (v View) Selected() string { return v.selected }

// Expanded 返回展开集合的副本
func (v View) Expanded() Expanded { return v.expanded.Clone() }

// Window 返回当前渲染区间
func (v View) Window() Window {
	return ComputeWindow(len(v.rows), v.offset, v.listHeight(), 1, v.buffer)
}

// SetTree 替换树，尽量保持光标所在路径
func (v View) SetTree(tree *project.Tree) View {
	current := v.cursorPath()
	v.tree = tree
	v.rows = Flatten(tree, v.expanded)
	if i := IndexOf(v.rows, current); i >= 0 {
		v.cursor = i
	}
	v.cursor = clamp(v.cursor, 0, max(len(v.rows)-1, 0))
	return v.reveal()
}

// Select 选中文件并展开它的所有祖先
func (v View) Select(path string) View {
	v.expanded = ExpandAncestors(v.expanded, path)
	v.rows = Flatten(v.tree, v.expanded)
	v.selected = path
	if i := IndexOf(v.rows, path); i >= 0 {
		v.cursor = i
	}
	return v.reveal()
}

// Init 实现 tea.Model
func (v View) Init() tea.Cmd { return nil }

// Update 实现 tea.Model
func (v View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v = v.reveal()
		v.offset = v.target
		return v, nil

	case scrollMsg:
		if msg.seq == v.seq {
			v.offset = v.target
		}
		return v, nil

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return v.scrollTo(v.target - 3)
		case tea.MouseButtonWheelDown:
			return v.scrollTo(v.target + 3)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(v.listHeight(), 1)
	last := max(len(v.rows)-1, 0)

	switch {
	case key.Matches(msg, v.keys.Quit):
		v.quitting = true
		return v, tea.Quit
	case key.Matches(msg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, 0, last)
	case key.Matches(msg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, last)
	case key.Matches(msg, v.keys.PageUp):
		v.cursor = clamp(v.cursor-page, 0, last)
	case key.Matches(msg, v.keys.PageDown):
		v.cursor = clamp(v.cursor+page, 0, last)
	case key.Matches(msg, v.keys.Home):
		v.cursor = 0
	case key.Matches(msg, v.keys.End):
		v.cursor = last
	case key.Matches(msg, v.keys.Left):
		v = v.collapseOrParent()
	case key.Matches(msg, v.keys.Right):
		if r, ok := v.cursorRow(); ok && r.IsDir() && !r.Expanded {
			v = v.toggle(r.Path)
		}
	case key.Matches(msg, v.keys.Open):
		r, ok := v.cursorRow()
		if !ok {
			return v, nil
		}
		if r.IsDir() {
			v = v.toggle(r.Path)
			break
		}
		v = v.Select(r.Path)
		if v.onOpen != nil {
			v.onOpen(r.Path)
		}
	default:
		return v, nil
	}
	v = v.reveal()
	cmd := v.debounced()
	return v, cmd
}

// View 实现 tea.Model，只渲染窗口内可见的行
func (v View) View() string {
	if v.quitting {
		return ""
	}
	w := v.Window()
	var b strings.Builder
	visible := v.listHeight()
	shown := 0
	for i := w.FirstVisible; i <= w.End && shown < visible; i++ {
		b.WriteString(v.renderRow(i))
		b.WriteByte('\n')
		shown++
	}
	for ; shown < visible; shown++ {
		b.WriteByte('\n')
	}
	b.WriteString(v.status(w))
	return b.String()
}

func (v View) renderRow(i int) string {
	r := v.rows[i]
	indent := strings.Repeat("  ", r.Depth)
	var line string
	switch {
	case r.IsDir() && r.Expanded:
		line = v.styles.Folder.Render("▾ " + r.Name)
	case r.IsDir():
		line = v.styles.Folder.Render("▸ " + r.Name)
	case r.Path == v.selected:
		line = v.styles.Selected.Render("  " + r.Name)
	default:
		line = v.styles.File.Render("  " + r.Name)
	}
	line = indent + line
	if v.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(v.width).Render(line)
	}
	if i == v.cursor {
		line = v.styles.Cursor.Render(line)
	}
	return line
}

func (v View) status(w Window) string {
	if len(v.rows) == 0 {
		return v.styles.Status.Render("0/0")
	}
	return v.styles.Status.Render(fmt.Sprintf("%d/%d  rows %d-%d", v.cursor+1, len(v.rows), w.Start+1, w.End+1))
}

// listHeight 扣除状态行之后的行数
func (v View) listHeight() int {
	return max(v.height-1, 0)
}

func (v View) cursorRow() (Row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return Row{}, false
	}
	return v.rows[v.cursor], true
}

func (v View) cursorPath() string {
	r, _ := v.cursorRow()
	return r.Path
}

func (v View) toggle(path string) View {
	v.expanded = v.expanded.Toggle(path)
	v.rows = Flatten(v.tree, v.expanded)
	if i := IndexOf(v.rows, path); i >= 0 {
		v.cursor = i
	}
	return v
}

func (v View) collapseOrParent() View {
	r, ok := v.cursorRow()
	if !ok {
		return v
	}
	if r.IsDir() && r.Expanded {
		return v.toggle(r.Path)
	}
	parent := r.Path[:max(strings.LastIndex(r.Path, "/"), 0)]
	if i := IndexOf(v.rows, parent); i >= 0 {
		v.cursor = i
	}
	return v
}

// reveal 调整目标偏移使光标可见
func (v View) reveal() View {
	h := v.listHeight()
	switch {
	case v.cursor < v.target:
		v.target = v.cursor
	case h > 0 && v.cursor >= v.target+h:
		v.target = v.cursor - h + 1
	}
	v.target = clamp(v.target, 0, MaxOffset(len(v.rows), h, 1))
	return v
}

func (v View) scrollTo(offset int) (View, tea.Cmd) {
	v.target = clamp(offset, 0, MaxOffset(len(v.rows), v.listHeight(), 1))
	cmd := v.debounced()
	return v, cmd
}

// debounced 合并 delay 内的滚动请求
func (v *View) debounced() tea.Cmd {
	if v.target == v.offset {
		return nil
	}
	v.seq++
	seq := v.seq
	return tea.Tick(v.delay, func(time.Time) tea.Msg { return scrollMsg{seq: seq} })
}
