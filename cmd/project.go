package cmd

import (
	"fmt"
	"os"

	projectSubcommand "github.com/sjzsdu/workbench/cmd/project"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "项目工作区工具",
	Long: `project 命令把目录（或远程仓库）载入内存工作区，然后对其进行浏览、检查和处理。

可用的子命令：
  tree     显示项目目录的树状结构
  search   按名称或内容搜索节点
  grep     全文搜索，输出行列位置
  show     高亮显示文件内容
  check    校验文件并列出问题
  format   格式化文件
  symbols  提取函数、变量、类和导入
  preview  生成 HTML 预览
  browse   交互式浏览文件树
  watch    监听磁盘变化并重新校验
  status   工作区与内存状态

示例：
  workbench project tree --stats                # 显示树状结构和统计信息
  workbench project check                       # 校验所有文件
  workbench project format src/app.js --write   # 格式化并写回磁盘
  workbench project -r https://github.com/x/y tree`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		w, err := GetWorkspace(cmd.Context())
		if err != nil {
			fmt.Printf("创建工作区失败: %v\n", err)
			os.Exit(1)
		}
		projectSubcommand.SetSharedWorkspace(w, sharedRoot, sharedMonitor)
	},
	Run: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.AddCommand(projectSubcommand.TreeCmd)
	projectCmd.AddCommand(projectSubcommand.SearchCmd)
	projectCmd.AddCommand(projectSubcommand.GrepCmd)
	projectCmd.AddCommand(projectSubcommand.ShowCmd)
	projectCmd.AddCommand(projectSubcommand.CheckCmd)
	projectCmd.AddCommand(projectSubcommand.FormatCmd)
	projectCmd.AddCommand(projectSubcommand.SymbolsCmd)
	projectCmd.AddCommand(projectSubcommand.PreviewCmd)
	projectCmd.AddCommand(projectSubcommand.BrowseCmd)
	projectCmd.AddCommand(projectSubcommand.WatchCmd)
	projectCmd.AddCommand(projectSubcommand.StatusCmd)
}

func runProject(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}
	fmt.Println("支持的操作: tree, search, grep, show, check, format, symbols, preview, browse, watch, status")
}
