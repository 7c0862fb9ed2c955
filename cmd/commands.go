package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/workbench/lang"
	"github.com/spf13/cobra"
)

var runCommand bool

var commandsCmd = &cobra.Command{
	Use:   "commands [query]",
	Short: lang.T("List or run command palette entries"),
	Long: `commands 按查询词（子串优先，其次模糊匹配）列出命令面板中的命令。
使用 --run 时把第一个参数当作命令 ID 执行，其余参数传给命令，执行后保存工作区。

示例：
  workbench commands               # 列出所有命令
  workbench commands curs          # 模糊匹配
  workbench commands --run new-file src/util.js`,
	Run: runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.Flags().BoolVar(&runCommand, "run", false, lang.T("Run the command instead of listing"))
}

func runCommands(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	w, err := GetWorkspace(ctx)
	if err != nil {
		fmt.Printf("创建工作区失败: %v\n", err)
		os.Exit(1)
	}

	if runCommand {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		if err := w.Run(ctx, args[0], args[1:]...); err != nil {
			fmt.Printf("%s: %v\n", args[0], err)
			os.Exit(1)
		}
		for _, n := range w.Notices() {
			fmt.Printf("[%s] %s\n", n.Level, n.Message)
		}
		if err := w.Persist(ctx); err != nil {
			fmt.Printf("保存失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	matches := w.Commands().Filter(strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Println(lang.T("Unknown command"))
		return
	}
	for _, c := range matches {
		fmt.Printf("%-18s %-10s %-20s %s\n", c.ID, lang.T(c.Category), c.Title(), c.Shortcut)
	}
}
