package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/charmbracelet/lipgloss"
	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/project/tree"
	"github.com/sjzsdu/workbench/share"
	"github.com/sjzsdu/workbench/workspace"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: lang.T("Interactive workspace shell with a command palette"),
	Long: `shell 打开项目并进入交互模式。输入命令面板中的命令 ID（如 save、find、replace、new-file）
或内置命令（open、cat、insert、type、check、format 等），Tab 补全会按模糊匹配给出候选。`,
	Args: cobra.NoArgs,
	Run:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type builtin struct {
	name  string
	usage string
	run   func(s *shell, ctx context.Context, args []string, rest string) error
}

type shell struct {
	w        *workspace.Workspace
	buf      *editor.Buffer
	builtins []builtin
	done     bool
}

var (
	shellPathStyle = lipgloss.NewStyle().Bold(true)
	shellErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	shellGutter    = lipgloss.NewStyle().Faint(true)
	shellMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errUsage       = errors.New("usage")
)

func runShell(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	w, err := GetWorkspace(ctx)
	if err != nil {
		fmt.Printf("创建工作区失败: %v\n", err)
		os.Exit(1)
	}
	s := newShell(w, sharedEditor)

	w.OnNotice(func(n workspace.Notice) {
		fmt.Printf("[%s] %s\n", n.Level, n.Message)
	})

	fmt.Println(lang.T("Type a command, 'help' to list, 'exit' to quit"))
	p := prompt.New(
		func(line string) { s.execute(ctx, line) },
		s.complete,
		prompt.OptionTitle(share.BUILDNAME),
		prompt.OptionLivePrefix(s.prefix),
		prompt.OptionPrefixTextColor(prompt.Blue),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool { return s.done }),
	)
	p.Run()
}

func newShell(w *workspace.Workspace, buf *editor.Buffer) *shell {
	s := &shell{w: w, buf: buf}
	s.builtins = []builtin{
		{"help", "help", (*shell).help},
		{"exit", "exit", func(s *shell, _ context.Context, _ []string, _ string) error { s.done = true; return nil }},
		{"open", "open <path>", (*shell).open},
		{"close", "close [path]", (*shell).close},
		{"tabs", "tabs", (*shell).tabs},
		{"tree", "tree [path]", (*shell).tree},
		{"cat", "cat", (*shell).cat},
		{"insert", "insert <line> <column> <text>", (*shell).insert},
		{"type", "type <text>", (*shell).typeText},
		{"undo", "undo", func(s *shell, _ context.Context, _ []string, _ string) error { return s.buf.Undo() }},
		{"redo", "redo", func(s *shell, _ context.Context, _ []string, _ string) error { return s.buf.Redo() }},
		{"check", "check", (*shell).check},
		{"format", "format", (*shell).format},
		{"notices", "notices", (*shell).notices},
		{"dismiss", "dismiss <id>", (*shell).dismiss},
	}
	return s
}

func (s *shell) prefix() (string, bool) {
	if p, ok := s.w.ActiveFile(); ok {
		return p + " > ", true
	}
	return share.BUILDNAME + " > ", true
}

func (s *shell) complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	if strings.Contains(before, " ") {
		return nil
	}
	word := d.GetWordBeforeCursor()
	var out []prompt.Suggest
	for _, b := range s.builtins {
		out = append(out, prompt.Suggest{Text: b.name, Description: b.usage})
	}
	out = prompt.FilterHasPrefix(out, word, true)
	for _, c := range s.w.Commands().Filter(word) {
		desc := c.Title()
		if c.Shortcut != "" {
			desc += "  " + c.Shortcut
		}
		out = append(out, prompt.Suggest{Text: c.ID, Description: desc})
	}
	return out
}

func (s *shell) execute(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	if name == "quit" {
		name = "exit"
	}

	var err error
	if b, ok := s.builtin(name); ok {
		err = b.run(s, ctx, args, rest)
		if errors.Is(err, errUsage) {
			err = fmt.Errorf("%s: %s", lang.T("Usage"), b.usage)
		}
	} else {
		err = s.w.Run(ctx, name, args...)
		if errors.Is(err, workspace.ErrUnknownCommand) {
			err = fmt.Errorf("%s: %s", lang.T("Unknown command"), name)
		}
	}
	if err != nil {
		fmt.Println(shellErrStyle.Render(err.Error()))
	}
}

func (s *shell) builtin(name string) (builtin, bool) {
	for _, b := range s.builtins {
		if b.name == name {
			return b, true
		}
	}
	return builtin{}, false
}

func (s *shell) active() (string, error) {
	p, ok := s.w.ActiveFile()
	if !ok {
		return "", workspace.ErrNoActiveFile
	}
	return p, nil
}

func (s *shell) help(context.Context, []string, string) error {
	for _, b := range s.builtins {
		fmt.Printf("  %-32s\n", b.usage)
	}
	fmt.Println()
	for _, c := range s.w.Commands().All() {
		fmt.Printf("  %-20s %-20s %s\n", c.ID, c.Title(), shellGutter.Render(c.Shortcut))
	}
	return nil
}

func (s *shell) open(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errUsage
	}
	return s.w.SelectFile(ctx, args[0])
}

func (s *shell) close(_ context.Context, args []string, _ string) error {
	p, err := s.active()
	if len(args) > 0 {
		p, err = args[0], nil
	}
	if err != nil {
		return err
	}
	return s.w.CloseTab(p)
}

func (s *shell) tabs(context.Context, []string, string) error {
	active, _ := s.w.ActiveFile()
	for _, t := range s.w.Tabs() {
		mark := " "
		if t.Path == active {
			mark = "*"
		}
		fmt.Printf("%s %-24s %s\n", mark, t.DisplayName, shellGutter.Render(t.Path))
	}
	return nil
}

func (s *shell) tree(_ context.Context, args []string, _ string) error {
	start := ""
	if len(args) > 0 {
		start = args[0]
	}
	out, err := tree.TreeWithOptions(s.w.SyncedTree(), start, tree.DefaultOptions())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// cat 输出编辑缓冲区，行号从 1 开始，带有校验标记
func (s *shell) cat(context.Context, []string, string) error {
	p, err := s.active()
	if err != nil {
		return err
	}
	marks := map[int][]editor.Marker{}
	for _, m := range s.buf.Markers(workspace.MarkerSource) {
		marks[m.Line] = append(marks[m.Line], m)
	}
	fmt.Println(shellPathStyle.Render(p))
	for i := 0; i < s.buf.LineCount(); i++ {
		line, _ := s.buf.Line(i)
		fmt.Printf("%s %s\n", shellGutter.Render(fmt.Sprintf("%4d", i+1)), line)
		for _, m := range marks[i+1] {
			fmt.Printf("     %s\n", shellMarkStyle.Render(fmt.Sprintf("^ %s: %s", m.Severity, m.Message)))
		}
	}
	return nil
}

func (s *shell) insert(_ context.Context, _ []string, rest string) error {
	if _, err := s.active(); err != nil {
		return err
	}
	parts := strings.SplitN(rest, " ", 3)
	if len(parts) < 3 {
		return errUsage
	}
	line, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || line < 1 || col < 1 {
		return errUsage
	}
	return s.buf.Insert(line-1, col-1, unescape(parts[2]))
}

func (s *shell) typeText(_ context.Context, _ []string, rest string) error {
	if _, err := s.active(); err != nil {
		return err
	}
	if rest == "" {
		return errUsage
	}
	return s.buf.Type(unescape(rest))
}

func (s *shell) check(ctx context.Context, _ []string, _ string) error {
	p, err := s.active()
	if err != nil {
		return err
	}
	res, err := s.w.Validate(ctx, p)
	if err != nil {
		return err
	}
	if len(res.Errors) == 0 {
		fmt.Println(lang.T("No problems found"))
		return nil
	}
	for _, d := range res.Errors {
		fmt.Printf("%s %s %s\n", shellGutter.Render(fmt.Sprintf("%4d", d.Line)), shellMarkStyle.Render(string(d.Severity)), d.Message)
	}
	return nil
}

func (s *shell) format(ctx context.Context, _ []string, _ string) error {
	p, err := s.active()
	if err != nil {
		return err
	}
	_, err = s.w.Format(ctx, p, true)
	return err
}

func (s *shell) notices(context.Context, []string, string) error {
	for _, n := range s.w.Notices() {
		fmt.Printf("%3d [%s] %s\n", n.ID, n.Level, n.Message)
	}
	return nil
}

func (s *shell) dismiss(_ context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	if !s.w.Dismiss(id) {
		return fmt.Errorf("notice %d not found", id)
	}
	return nil
}

// unescape 支持在单行输入中写 \n 和 \t
func unescape(text string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(text)
}
