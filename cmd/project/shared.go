package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjzsdu/workbench/monitor"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/workspace"
)

// 共享的工作区实例
var (
	sharedWorkspace *workspace.Workspace
	sharedRoot      string
	sharedMonitor   *monitor.Monitor
)

// SetSharedWorkspace 设置共享的工作区实例，root 为打开的目录或仓库地址
func SetSharedWorkspace(w *workspace.Workspace, root string, m *monitor.Monitor) {
	sharedWorkspace = w
	sharedRoot = root
	sharedMonitor = m
}

// mustWorkspace 返回共享的工作区，未初始化时退出
func mustWorkspace() *workspace.Workspace {
	if sharedWorkspace == nil {
		fmt.Printf("错误: 未找到共享的工作区实例\n")
		os.Exit(1)
	}
	return sharedWorkspace
}

// GetTargetPath 把命令行中的路径转换为工作区内的路径
//
// 绝对路径必须位于打开的目录之下；相对路径按项目根解析，"." 表示根。
func GetTargetPath(targetPath string) (string, error) {
	if filepath.IsAbs(targetPath) {
		if sharedRoot == "" || !filepath.IsAbs(sharedRoot) {
			return "", fmt.Errorf("%s 不在项目中", targetPath)
		}
		rel, err := filepath.Rel(sharedRoot, targetPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%s 不在项目 %s 中", targetPath, sharedRoot)
		}
		targetPath = rel
	}
	p := filepath.ToSlash(filepath.Clean(targetPath))
	if p == "." {
		p = ""
	}
	return project.NormalizePath(p)
}

// targetOrExit 是 GetTargetPath 的命令行版本，并确认路径存在
func targetOrExit(args []string) string {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	p, err := GetTargetPath(target)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	if p != "" && !mustWorkspace().Tree().Exists(p) {
		fmt.Printf("找不到目标路径: %s\n", target)
		os.Exit(1)
	}
	return p
}

// filesUnder 返回 p 之下（含 p 本身为文件时）的所有文件路径
func filesUnder(tree *project.Tree, p string) ([]string, error) {
	if p != "" {
		n, err := tree.Find(p)
		if err != nil {
			return nil, err
		}
		if n.IsFile() {
			return []string{n.Path}, nil
		}
	}
	var out []string
	for _, n := range tree.ListAllFiles() {
		if p == "" || strings.HasPrefix(n.Path, p+"/") {
			out = append(out, n.Path)
		}
	}
	return out, nil
}
