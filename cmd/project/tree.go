package project

import (
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/helper/display"
	"github.com/sjzsdu/workbench/project/tree"
	"github.com/spf13/cobra"
)

var (
	depth      int
	showFiles  bool
	showHidden bool
	noFiles    bool
	showStats  bool
	noSizes    bool
)

var TreeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "显示目录的树状结构",
	Long: `tree 命令以树状结构显示工作区中指定目录的内容。

支持的功能：
- 显示目录和文件的层次结构，文件夹在前
- 控制显示深度
- 选择性显示文件或目录
- 显示隐藏文件
- 统计文件、目录数量和语言分布

示例：
  workbench project tree                    # 显示项目根的树状结构
  workbench project tree src                # 显示 src 的树状结构
  workbench project tree --depth 2          # 限制显示深度为2层
  workbench project tree --no-files         # 只显示目录，不显示文件
  workbench project tree --hidden           # 显示隐藏文件
  workbench project tree --stats            # 显示统计信息`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTree,
}

func init() {
	TreeCmd.Flags().IntVarP(&depth, "depth", "", -1, "限制显示深度 (-1 表示无限制)")
	TreeCmd.Flags().BoolVarP(&showFiles, "files", "f", true, "显示文件")
	TreeCmd.Flags().BoolVarP(&showHidden, "hidden", "a", false, "显示隐藏文件")
	TreeCmd.Flags().BoolVarP(&noFiles, "no-files", "", false, "不显示文件，只显示目录")
	TreeCmd.Flags().BoolVarP(&showStats, "stats", "s", false, "显示统计信息")
	TreeCmd.Flags().BoolVarP(&noSizes, "no-sizes", "", false, "不显示文件大小")
}

func runTree(cmd *cobra.Command, args []string) {
	target := targetOrExit(args)
	t := mustWorkspace().Tree()

	if noFiles {
		showFiles = false
	}
	opts := tree.Options{
		ShowFiles:  showFiles,
		ShowHidden: showHidden,
		MaxDepth:   depth,
		Sorted:     true,
		Sizes:      !noSizes,
	}

	output, err := tree.TreeWithOptions(t, target, opts)
	if err != nil {
		fmt.Printf("生成树状结构失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(output)

	if showStats {
		stats := tree.Stats(t)
		fmt.Printf("\n%s\n", stats.String())
		if len(stats.Languages) > 0 {
			fmt.Println()
			fmt.Println(display.BarChart(stats.Languages, 8, "other"))
		}
	}
}
