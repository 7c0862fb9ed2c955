// Package render 把项目树投影为可见行，并只渲染与视口相交的那一段
package render

import (
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
)

// Row 是展开后的一行
type Row struct {
	Path     string
	Name     string
	Kind     project.Kind
	Depth    int
	Expanded bool
}

// IsDir 判断是否为文件夹行
func (r Row) IsDir() bool { return r.Kind == project.KindFolder }

// Expanded 已展开文件夹的集合
type Expanded map[string]bool

// Has 判断文件夹是否已展开
func (e Expanded) Has(path string) bool { return e[path] }

// Clone 复制集合
func (e Expanded) Clone() Expanded {
	out := make(Expanded, len(e))
	for k, v := range e {
		if v {
			out[k] = true
		}
	}
	return out
}

// Toggle 返回切换 path 展开状态后的新集合
func (e Expanded) Toggle(path string) Expanded {
	out := e.Clone()
	if out[path] {
		delete(out, path)
	} else {
		out[path] = true
	}
	return out
}

// ExpandAncestors 返回展开了 path 所有祖先文件夹的新集合
func ExpandAncestors(expanded Expanded, path string) Expanded {
	out := expanded.Clone()
	for _, a := range helper.Ancestors(helper.StandardizePath(path)) {
		out[a] = true
	}
	return out
}

// Flatten 深度优先展开树，未展开文件夹的后代被跳过
func Flatten(tree *project.Tree, expanded Expanded) []Row {
	if tree == nil {
		return nil
	}
	rows := make([]Row, 0, tree.Len())
	_ = tree.Walk(project.VisitorFunc(func(n *project.Node, depth int) error {
		open := n.IsDir() && expanded.Has(n.Path)
		rows = append(rows, Row{Path: n.Path, Name: n.Name, Kind: n.Kind, Depth: depth, Expanded: open})
		if n.IsDir() && !open {
			return project.SkipFolder
		}
		return nil
	}))
	return rows
}

// IndexOf 返回 path 所在行号，不可见时返回 -1
func IndexOf(rows []Row, path string) int {
	for i, r := range rows {
		if r.Path == path {
			return i
		}
	}
	return -1
}
