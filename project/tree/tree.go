// Package tree 把项目树渲染成类似 Unix tree 命令的文本
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sjzsdu/workbench/project"
)

// Options 渲染选项
type Options struct {
	ShowFiles  bool
	ShowHidden bool
	MaxDepth   int  // 0 或负数表示不限制
	Sorted     bool // 文件夹优先按名称排序，否则保持插入顺序
	Sizes      bool // 显示文件大小
}

// DefaultOptions 显示所有非隐藏节点
func DefaultOptions() Options {
	return Options{ShowFiles: true, Sorted: true, Sizes: true}
}

// Tree 从根开始生成树状结构
func Tree(t *project.Tree) string {
	out, _ := TreeWithOptions(t, "", DefaultOptions())
	return out
}

// TreeWithOptions 从 start 开始生成树状结构，start 为空表示根
func TreeWithOptions(t *project.Tree, start string, opts Options) (string, error) {
	if t == nil {
		return "", nil
	}
	p, err := project.NormalizePath(start)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if p == "" {
		result.WriteString(".\n")
	} else {
		n, err := t.Find(p)
		if err != nil {
			return "", err
		}
		result.WriteString(label(n, opts))
		result.WriteString("\n")
		if n.IsFile() {
			return result.String(), nil
		}
	}
	if err := build(t, p, &result, "", 1, opts); err != nil {
		return "", err
	}
	return result.String(), nil
}

func build(t *project.Tree, p string, result *strings.Builder, prefix string, depth int, opts Options) error {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return nil
	}
	kids, err := t.Children(p)
	if err != nil {
		return err
	}
	kids = visible(kids, opts)

	for i, child := range kids {
		last := i == len(kids)-1
		if last {
			result.WriteString(prefix + "└── ")
		} else {
			result.WriteString(prefix + "├── ")
		}
		result.WriteString(label(child, opts))
		result.WriteString("\n")

		if child.IsDir() {
			next := prefix + "│   "
			if last {
				next = prefix + "    "
			}
			if err := build(t, child.Path, result, next, depth+1, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// visible 过滤并排序子节点
func visible(kids []*project.Node, opts Options) []*project.Node {
	out := make([]*project.Node, 0, len(kids))
	for _, k := range kids {
		if !opts.ShowHidden && strings.HasPrefix(k.Name, ".") {
			continue
		}
		if !opts.ShowFiles && k.IsFile() {
			continue
		}
		out = append(out, k)
	}
	if opts.Sorted {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].IsDir() != out[j].IsDir() {
				return out[i].IsDir()
			}
			return out[i].Name < out[j].Name
		})
	}
	return out
}

func label(n *project.Node, opts Options) string {
	if n.IsDir() {
		return n.Name + "/"
	}
	if opts.Sizes {
		return fmt.Sprintf("%s (%s)", n.Name, FormatSize(int64(len(n.Content))))
	}
	return n.Name
}

// FormatSize 把字节数格式化为可读形式
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
}
