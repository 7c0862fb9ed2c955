package project

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/coroutine"
	"github.com/sjzsdu/workbench/lang"
	"github.com/spf13/cobra"
)

var (
	checkAll      bool
	checkProgress bool
)

var (
	pathStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var CheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "校验文件并列出问题",
	Long: `check 把文件交给后台 worker 校验，按文件列出错误和警告。发现错误时以状态码 1 退出。

只校验有校验器的语言（JavaScript/TypeScript/JSX/TSX、Python、HTML、CSS），使用 --all 列出所有文件的结果。

示例：
  workbench project check             # 校验整个项目
  workbench project check src         # 只校验 src 下的文件
  workbench project check src/app.js  # 校验单个文件`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheck,
}

func init() {
	CheckCmd.Flags().BoolVar(&checkAll, "all", false, "包含没有校验器的文件")
	CheckCmd.Flags().BoolVar(&checkProgress, "progress", false, "在标准错误上显示进度条")
}

func runCheck(cmd *cobra.Command, args []string) {
	w := mustWorkspace()
	target := targetOrExit(args)

	paths, err := filesUnder(w.Tree(), target)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	if !checkAll {
		paths = checkable(paths)
	}

	progress := newProgress("check", len(paths), checkProgress)
	results := coroutine.Map(cmd.Context(), 0, paths, func(p string) (engine.ValidationResult, error) {
		defer progress.Increment()
		return w.Validate(cmd.Context(), p)
	})
	progress.Finish()

	problems, files, failed := 0, 0, false
	for _, r := range results {
		p := paths[r.Index]
		if r.Err != nil {
			fmt.Printf("%s %s\n", pathStyle.Render(p), errorStyle.Render(r.Err.Error()))
			failed = true
			continue
		}
		if len(r.Value.Errors) == 0 {
			if checkAll {
				fmt.Printf("%s %s\n", pathStyle.Render(p), okStyle.Render("ok"))
			}
			continue
		}
		files++
		problems += len(r.Value.Errors)
		fmt.Println(pathStyle.Render(p))
		for _, d := range r.Value.Errors {
			fmt.Println(formatDiagnostic(d))
		}
		fmt.Println()
		if !r.Value.IsValid {
			failed = true
		}
	}

	if problems == 0 {
		fmt.Println(okStyle.Render(lang.T("No problems found")))
	} else {
		fmt.Println(lang.Tf("{{.Count}} problems in {{.Files}} files", map[string]any{"Count": problems, "Files": files}))
	}
	if failed {
		os.Exit(1)
	}
}

// checkable 过滤出有校验器的文件
func checkable(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		switch helper.LanguageOf(p) {
		case helper.LangJavaScript, helper.LangJSX, helper.LangTypeScript, helper.LangTSX,
			helper.LangPython, helper.LangHTML, helper.LangCSS:
			out = append(out, p)
		}
	}
	return out
}

func formatDiagnostic(d engine.Diagnostic) string {
	sev := warningStyle.Render(string(d.Severity))
	if d.Severity == engine.SeverityError {
		sev = errorStyle.Render(string(d.Severity))
	}
	return fmt.Sprintf("  %s  %s  %s", dimStyle.Render(fmt.Sprintf("%4d", d.Line)), sev, d.Message)
}

// newProgress 返回写到标准错误的进度条，未启用时写入 io.Discard
func newProgress(title string, total int, enabled bool) *helper.Progress {
	out := io.Discard
	if enabled {
		out = os.Stderr
	}
	return helper.NewProgress(out, title, total)
}
