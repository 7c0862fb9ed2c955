package project

import (
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/helper/coroutine"
	"github.com/spf13/cobra"
)

var (
	formatWrite    bool
	formatProgress bool
)

var FormatCmd = &cobra.Command{
	Use:   "format [path]",
	Short: "格式化文件",
	Long: `format 去掉行尾空白、合并多余空行并保证文件以单个换行结束，JavaScript 与 CSS 还会规整标点两侧的空格。

对单个文件且未指定 --write 时输出格式化后的内容；对目录则列出需要格式化的文件。
指定 --write 时把结果写回工作区并保存到磁盘。

示例：
  workbench project format src/app.js          # 输出格式化结果
  workbench project format src --write         # 格式化 src 下的文件并保存`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFormat,
}

func init() {
	FormatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "写回并保存")
	FormatCmd.Flags().BoolVar(&formatProgress, "progress", false, "在标准错误上显示进度条")
}

func runFormat(cmd *cobra.Command, args []string) {
	w := mustWorkspace()
	target := targetOrExit(args)
	ctx := cmd.Context()

	paths, err := filesUnder(w.Tree(), target)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	single := len(paths) == 1 && paths[0] == target
	if single && !formatWrite {
		out, err := w.Format(ctx, target, false)
		if err != nil {
			fmt.Printf("格式化失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	type outcome struct{ changed bool }
	progress := newProgress("format", len(paths), formatProgress)
	results := coroutine.Map(ctx, 0, paths, func(p string) (outcome, error) {
		defer progress.Increment()
		before := w.Peek(p)
		after, err := w.Format(ctx, p, formatWrite)
		return outcome{changed: after != before}, err
	})
	progress.Finish()

	changed := 0
	for _, r := range results {
		p := paths[r.Index]
		if r.Err != nil {
			fmt.Printf("%s: %v\n", p, r.Err)
			continue
		}
		if r.Value.changed {
			changed++
			fmt.Println(p)
		}
	}

	if !formatWrite {
		fmt.Printf("\n%d 个文件需要格式化\n", changed)
		return
	}
	if err := w.Persist(ctx); err != nil {
		fmt.Printf("保存失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n已格式化 %d 个文件\n", changed)
}
