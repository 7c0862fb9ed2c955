package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/workbench/engine"
	"github.com/spf13/cobra"
)

var symbolsJSON bool

var SymbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "提取文件中的函数、变量、类和导入",
	Long: `symbols 在后台 worker 中分析文件并按类别输出符号名称。

示例：
  workbench project symbols src/app.js
  workbench project symbols main.py --json`,
	Args: cobra.ExactArgs(1),
	Run:  runSymbols,
}

func init() {
	SymbolsCmd.Flags().BoolVar(&symbolsJSON, "json", false, "以 JSON 输出")
}

func runSymbols(cmd *cobra.Command, args []string) {
	w := mustWorkspace()
	p := targetOrExit(args)

	syms, err := w.Symbols(cmd.Context(), p)
	if err != nil {
		fmt.Printf("提取符号失败: %v\n", err)
		os.Exit(1)
	}

	if symbolsJSON {
		data, err := json.MarshalIndent(syms, "", "  ")
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	fmt.Print(formatSymbols(syms))
}

func formatSymbols(s engine.Symbols) string {
	var sb strings.Builder
	groups := []struct {
		title string
		names []string
	}{
		{"Functions", s.Functions},
		{"Variables", s.Variables},
		{"Classes", s.Classes},
		{"Imports", s.Imports},
	}
	for _, g := range groups {
		sb.WriteString(pathStyle.Render(fmt.Sprintf("%s (%d)", g.title, len(g.names))))
		sb.WriteString("\n")
		for _, n := range g.names {
			sb.WriteString("  " + n + "\n")
		}
	}
	return sb.String()
}
