package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/renders"
	"github.com/spf13/cobra"
)

var (
	showRaw   bool
	showTheme string
	showWidth int
)

var ShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "在终端中高亮显示文件",
	Long: `show 读取工作区中的文件并输出到终端。Markdown 文件按段落渲染，其它文件按语言高亮。

示例：
  workbench project show README.md
  workbench project show src/app.js --theme dracula
  workbench project show src/app.js --raw`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func init() {
	ShowCmd.Flags().BoolVar(&showRaw, "raw", false, "原样输出，不做高亮")
	ShowCmd.Flags().StringVar(&showTheme, "theme", renders.DefaultTheme, "代码高亮主题")
	ShowCmd.Flags().IntVar(&showWidth, "width", 0, "Markdown 换行宽度，0 使用默认值")
}

func runShow(cmd *cobra.Command, args []string) {
	w := mustWorkspace()
	p := targetOrExit(args)

	text, err := w.Content(cmd.Context(), p)
	if err != nil {
		fmt.Printf("读取文件失败: %v\n", err)
		os.Exit(1)
	}
	if showRaw {
		fmt.Print(text)
		return
	}

	language := helper.LanguageOf(p)
	if language != helper.LangMarkdown {
		if err := renders.HighlightCode(os.Stdout, text, language, showTheme); err != nil {
			fmt.Printf("高亮失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	r, err := renders.NewMarkdownRenderer(os.Stdout, showWidth)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if err := r.WriteStream(line); err != nil {
			fmt.Printf("渲染失败: %v\n", err)
			os.Exit(1)
		}
	}
	r.Done()
}
