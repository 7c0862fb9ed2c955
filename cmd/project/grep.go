package project

import (
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/helper/renders"
	projsearch "github.com/sjzsdu/workbench/project/search"
	"github.com/spf13/cobra"
)

var (
	grepCaseSensitive bool
	grepWholeWord     bool
	grepRegex         bool
	grepTypes         []string
	grepMax           int
	grepMarkdown      bool
)

var GrepCmd = &cobra.Command{
	Use:   "grep <query>",
	Short: "全文搜索，输出匹配所在的行和列",
	Long: `grep 在工作区所有文件中逐行搜索，结果按文件、行、列排序。

示例：
  workbench project grep TODO                      # 忽略大小写的子串搜索
  workbench project grep 'func\s+\w+' --regex      # 正则搜索
  workbench project grep main --word --type js,css # 全词匹配并限定文件类型
  workbench project grep main --markdown           # 以 Markdown 渲染结果`,
	Args: cobra.ExactArgs(1),
	Run:  runGrep,
}

func init() {
	GrepCmd.Flags().BoolVar(&grepCaseSensitive, "case", false, "区分大小写")
	GrepCmd.Flags().BoolVar(&grepWholeWord, "word", false, "全词匹配")
	GrepCmd.Flags().BoolVar(&grepRegex, "regex", false, "把查询视为正则表达式")
	GrepCmd.Flags().StringSliceVar(&grepTypes, "type", []string{}, "限定文件类型，例如: js,css")
	GrepCmd.Flags().IntVar(&grepMax, "max", 0, "最多返回的结果数，0 表示不限制")
	GrepCmd.Flags().BoolVar(&grepMarkdown, "markdown", false, "以 Markdown 渲染结果")
}

func runGrep(cmd *cobra.Command, args []string) {
	w := mustWorkspace()

	engine := projsearch.NewDefaultSearchEngine()
	if err := engine.BuildIndex(w.SyncedTree()); err != nil {
		fmt.Printf("建立索引失败: %v\n", err)
		os.Exit(1)
	}

	results, err := engine.Search(cmd.Context(), args[0], projsearch.GrepOptions{
		CaseSensitive: grepCaseSensitive,
		WholeWord:     grepWholeWord,
		RegexMode:     grepRegex,
		FileTypes:     normalizeExts(grepTypes),
		MaxResults:    grepMax,
	})
	if err != nil {
		fmt.Printf("搜索出错: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("未找到匹配项")
		return
	}

	if !grepMarkdown {
		fmt.Print(projsearch.FormatSearchResults(results))
		return
	}
	formatter := &projsearch.MarkdownSearchFormatter{}
	out, err := renders.RenderMarkdown(formatter.Format(results), 0, "")
	if err != nil {
		fmt.Printf("渲染失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}
