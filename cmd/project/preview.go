package project

import (
	"errors"
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/preview"
	"github.com/spf13/cobra"
)

var (
	previewActive   string
	previewMarkdown bool
	previewStack    []string
	previewOut      string
	previewText     bool
)

var PreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "生成自包含的 HTML 预览",
	Long: `preview 选出宿主文档（当前文件、index.html、任意 HTML 文件，或为脚本/Markdown 合成的外壳），
把项目中的样式和脚本内联进去，生成可以直接打开的单个 HTML 文件。

示例：
  workbench project preview --out preview.html
  workbench project preview --active README.md --markdown --text
  workbench project preview --active src/App.jsx --stack react`,
	Args: cobra.NoArgs,
	Run:  runPreview,
}

func init() {
	PreviewCmd.Flags().StringVar(&previewActive, "active", "", "作为当前文件的路径")
	PreviewCmd.Flags().BoolVar(&previewMarkdown, "markdown", false, "当前文件为 Markdown 时渲染为宿主")
	PreviewCmd.Flags().StringSliceVar(&previewStack, "stack", []string{}, "技术栈标签，用于加载 CDN 运行时，例如: react,tailwind")
	PreviewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "输出文件，为空时写到标准输出")
	PreviewCmd.Flags().BoolVar(&previewText, "text", false, "输出预览的纯文本形式")
}

func runPreview(cmd *cobra.Command, args []string) {
	w := mustWorkspace()

	var opts []preview.Option
	if previewActive != "" {
		p, err := GetTargetPath(previewActive)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		opts = append(opts, preview.WithActive(p))
	}
	if previewMarkdown {
		opts = append(opts, preview.WithMarkdownHost())
	}
	if len(previewStack) > 0 {
		opts = append(opts, preview.WithTechStack(previewStack...))
	}

	res, err := w.Preview(opts...)
	if errors.Is(err, preview.ErrNoPreview) {
		fmt.Println(lang.T("No preview available"))
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("生成预览失败: %v\n", err)
		os.Exit(1)
	}

	out := res.HTML
	if previewText {
		if out, err = preview.Text(res.HTML); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	}

	if previewOut == "" {
		fmt.Print(out)
		return
	}
	if err := helper.WriteFile(previewOut, []byte(out)); err != nil {
		fmt.Printf("写入文件失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("预览已写入 %s (宿主: %s, 内联 %d 个文件, 追加 %d 个文件)\n",
		previewOut, res.HostPath, len(res.Inlined), len(res.Appended))
}
