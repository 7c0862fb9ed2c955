package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/lang"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrDuplicate      = errors.New("command already registered")
	ErrMissingArgs    = errors.New("missing command arguments")
	ErrNoActiveFile   = errors.New("no active file")
)

// Command 是命令面板中的一项
type Command struct {
	ID       string
	Label    string // 消息 ID，显示时本地化
	Category string
	Keywords []string
	Shortcut string
	Run      func(ctx context.Context, w *Workspace, args []string) error
}

// Title 返回本地化的标题
func (c Command) Title() string {
	return lang.T(c.Label)
}

func (c Command) haystack() string {
	parts := append([]string{c.ID, c.Title(), lang.T(c.Category)}, c.Keywords...)
	return strings.Join(parts, " ")
}

// Registry 按注册顺序保存命令
type Registry struct {
	mu       sync.RWMutex
	commands []Command
	index    map[string]int
}

// NewRegistry 创建空的命令表
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Register 注册命令，ID 重复时返回 ErrDuplicate
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[c.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.ID)
	}
	r.index[c.ID] = len(r.commands)
	r.commands = append(r.commands, c)
	return nil
}

// Get 按 ID 查找命令
func (r *Registry) Get(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return Command{}, false
	}
	return r.commands[i], true
}

// All 返回全部命令
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Command(nil), r.commands...)
}

// Filter 先按子串匹配（保持注册顺序），再追加模糊匹配的结果（按得分排序）
func (r *Registry) Filter(query string) []Command {
	all := r.All()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	lower := strings.ToLower(query)
	var out []Command
	taken := make([]bool, len(all))
	hay := make([]string, len(all))
	for i, c := range all {
		hay[i] = c.haystack()
		if strings.Contains(strings.ToLower(hay[i]), lower) {
			out = append(out, c)
			taken[i] = true
		}
	}
	for _, m := range fuzzy.Find(query, hay) {
		if !taken[m.Index] {
			out = append(out, all[m.Index])
			taken[m.Index] = true
		}
	}
	return out
}

// Commands 返回工作区的命令表
func (w *Workspace) Commands() *Registry {
	return w.commands
}

// Run 执行命令
func (w *Workspace) Run(ctx context.Context, id string, args ...string) error {
	c, ok := w.commands.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return c.Run(ctx, w, args)
}

type finder interface {
	SelectMatches(query string, opts editor.SearchOptions) (int, error)
}

type replacer interface {
	ReplaceAll(query, replacement string, opts editor.SearchOptions) (int, error)
}

type selector interface {
	SelectAll()
}

type cursorAdder interface {
	AddCursorAbove() bool
	AddCursorBelow() bool
}

func builtinCommands() *Registry {
	r := NewRegistry()
	for _, c := range []Command{
		{ID: "new-file", Label: "New File", Category: "File", Keywords: []string{"create", "touch"}, Shortcut: "ctrl+n", Run: runCreate(true)},
		{ID: "new-folder", Label: "New Folder", Category: "File", Keywords: []string{"mkdir", "directory"}, Run: runCreate(false)},
		{ID: "save", Label: "Save", Category: "File", Keywords: []string{"write"}, Shortcut: "ctrl+s", Run: runSave},
		{ID: "save-all", Label: "Save All", Category: "File", Keywords: []string{"write", "persist"}, Shortcut: "ctrl+alt+s", Run: runSaveAll},
		{ID: "find", Label: "Find", Category: "Edit", Keywords: []string{"search"}, Shortcut: "ctrl+f", Run: runFind},
		{ID: "replace", Label: "Replace", Category: "Edit", Keywords: []string{"substitute"}, Shortcut: "ctrl+h", Run: runReplace},
		{ID: "toggle-preview", Label: "Toggle Preview", Category: "View", Keywords: []string{"browser", "render"}, Run: runToggle(func(s *UIState) { s.PreviewVisible = !s.PreviewVisible })},
		{ID: "toggle-output", Label: "Toggle Output", Category: "View", Keywords: []string{"console", "terminal"}, Run: runToggle(func(s *UIState) { s.OutputVisible = !s.OutputVisible })},
		{ID: "select-all", Label: "Select All", Category: "Selection", Shortcut: "ctrl+a", Run: runSelectAll},
		{ID: "add-cursor-above", Label: "Add Cursor Above", Category: "Selection", Keywords: []string{"multi"}, Shortcut: "ctrl+alt+up", Run: runAddCursor(true)},
		{ID: "add-cursor-below", Label: "Add Cursor Below", Category: "Selection", Keywords: []string{"multi"}, Shortcut: "ctrl+alt+down", Run: runAddCursor(false)},
	} {
		_ = r.Register(c)
	}
	return r
}

func runCreate(file bool) func(context.Context, *Workspace, []string) error {
	return func(ctx context.Context, w *Workspace, args []string) error {
		if len(args) == 0 {
			return ErrMissingArgs
		}
		p := helper.StandardizePath(args[0])
		if file {
			_, err := w.CreateFile(ctx, helper.ParentPath(p), helper.BaseName(p))
			return err
		}
		_, err := w.CreateFolder(helper.ParentPath(p), helper.BaseName(p))
		return err
	}
}

func runSave(ctx context.Context, w *Workspace, _ []string) error {
	p, ok := w.ActiveFile()
	if !ok {
		return ErrNoActiveFile
	}
	w.syncPath(p)
	if err := w.Persist(ctx); err != nil {
		w.notify(NoticeError, "Save failed", err)
		return err
	}
	return nil
}

func runSaveAll(ctx context.Context, w *Workspace, _ []string) error {
	w.FlushAll()
	if err := w.Persist(ctx); err != nil {
		w.notify(NoticeError, "Save failed", err)
		return err
	}
	return nil
}

func runFind(_ context.Context, w *Workspace, args []string) error {
	if len(args) == 0 {
		return ErrMissingArgs
	}
	f, ok := w.editor.(finder)
	if !ok {
		return ErrNoEditor
	}
	_, err := f.SelectMatches(args[0], editor.SearchOptions{})
	return err
}

func runReplace(_ context.Context, w *Workspace, args []string) error {
	if len(args) < 2 {
		return ErrMissingArgs
	}
	p, ok := w.ActiveFile()
	if !ok {
		return ErrNoActiveFile
	}
	r, ok := w.editor.(replacer)
	if !ok {
		return ErrNoEditor
	}
	n, err := r.ReplaceAll(args[0], args[1], editor.SearchOptions{})
	if err != nil {
		return err
	}
	if n > 0 {
		if err := w.UpdateContent(p, w.editor.Value()); err != nil {
			return err
		}
	}
	w.notifyText(NoticeInfo, lang.Tf("Replaced {{.Count}} occurrences", map[string]any{"Count": n}), nil)
	return nil
}

func runToggle(flip func(*UIState)) func(context.Context, *Workspace, []string) error {
	return func(_ context.Context, w *Workspace, _ []string) error {
		w.mu.Lock()
		flip(&w.ui)
		w.mu.Unlock()
		return nil
	}
}

func runSelectAll(_ context.Context, w *Workspace, _ []string) error {
	s, ok := w.editor.(selector)
	if !ok {
		return ErrNoEditor
	}
	s.SelectAll()
	return nil
}

func runAddCursor(above bool) func(context.Context, *Workspace, []string) error {
	return func(_ context.Context, w *Workspace, _ []string) error {
		c, ok := w.editor.(cursorAdder)
		if !ok {
			return ErrNoEditor
		}
		if above {
			c.AddCursorAbove()
		} else {
			c.AddCursorBelow()
		}
		return nil
	}
}
