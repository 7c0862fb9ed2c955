package tree

import (
	"fmt"
	"strings"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
)

// Statistics 树的统计信息，根不计入目录数
type Statistics struct {
	DirectoryCount int            // 目录数量
	FileCount      int            // 文件数量
	TotalSize      int64          // 文件内容总字节数
	MaxDepth       int            // 最大深度，顶层节点为 1
	Languages      map[string]int // 按语言统计的文件数
}

// Stats 返回树的统计信息
func Stats(t *project.Tree) Statistics {
	stats := Statistics{Languages: map[string]int{}}
	if t == nil {
		return stats
	}

	_ = t.Walk(project.VisitorFunc(func(n *project.Node, depth int) error {
		if depth+1 > stats.MaxDepth {
			stats.MaxDepth = depth + 1
		}
		if n.IsDir() {
			stats.DirectoryCount++
			return nil
		}
		stats.FileCount++
		stats.TotalSize += int64(len(n.Content))
		lang := helper.LanguageOf(n.Path)
		if lang == "" {
			lang = "other"
		}
		stats.Languages[lang]++
		return nil
	}))
	return stats
}

// String 返回统计信息的字符串表示
func (s Statistics) String() string {
	return fmt.Sprintf("%d directories, %d files, %s total",
		s.DirectoryCount, s.FileCount, strings.Replace(FormatSize(s.TotalSize), " B", " bytes", 1))
}
