package project

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sjzsdu/workbench/render"
	"github.com/spf13/cobra"
)

var BrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "交互式浏览文件树",
	Long: `browse 在终端全屏显示文件树，只渲染可见窗口内的行。

按键：
  j/k 或方向键  移动光标
  h/l          折叠/展开目录
  C-u/C-d      翻页
  enter        展开目录或打开文件
  q            退出

退出时输出打开过的文件。`,
	Args: cobra.NoArgs,
	Run:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) {
	w := mustWorkspace()
	ctx := cmd.Context()

	view := render.NewView(w.Tree(), w.Expanded(), func(p string) {
		// 失败会作为通知记录在工作区中
		_ = w.OpenFile(ctx, p)
	})
	if active, ok := w.ActiveFile(); ok {
		view = view.Select(active)
	}

	final, err := tea.NewProgram(view, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		fmt.Printf("运行界面失败: %v\n", err)
		os.Exit(1)
	}

	for _, tab := range w.Tabs() {
		fmt.Println(tab.Path)
	}
	if v, ok := final.(render.View); ok && v.Selected() != "" {
		fmt.Printf("\n当前文件: %s\n", v.Selected())
	}
}
