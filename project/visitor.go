package project

import "errors"

// SkipFolder 由 VisitFolder 返回时跳过该文件夹的后代
var SkipFolder = errors.New("skip this folder")

// NodeVisitor 定义了节点访问器的接口
type NodeVisitor interface {
	// VisitFolder 访问文件夹节点
	VisitFolder(node *Node, depth int) error
	// VisitFile 访问文件节点
	VisitFile(node *Node, depth int) error
}

// VisitorFunc 把一个函数同时用作文件和文件夹访问器
type VisitorFunc func(node *Node, depth int) error

// VisitFolder 实现 NodeVisitor 接口
func (f VisitorFunc) VisitFolder(node *Node, depth int) error { return f(node, depth) }

// VisitFile 实现 NodeVisitor 接口
func (f VisitorFunc) VisitFile(node *Node, depth int) error { return f(node, depth) }

// FilteredVisitor 只把满足过滤条件的节点交给实际访问器
type FilteredVisitor struct {
	Visitor      NodeVisitor           // 实际的访问器
	FileFilter   func(node *Node) bool // 文件过滤函数
	FolderFilter func(node *Node) bool // 文件夹过滤函数，不满足时整个文件夹被跳过
}

// VisitFolder 实现 NodeVisitor 接口
func (fv *FilteredVisitor) VisitFolder(node *Node, depth int) error {
	if fv.FolderFilter != nil && !fv.FolderFilter(node) {
		return SkipFolder
	}
	return fv.Visitor.VisitFolder(node, depth)
}

// VisitFile 实现 NodeVisitor 接口
func (fv *FilteredVisitor) VisitFile(node *Node, depth int) error {
	if fv.FileFilter != nil && !fv.FileFilter(node) {
		return nil
	}
	return fv.Visitor.VisitFile(node, depth)
}

// Walk 深度优先访问整棵树，depth 从 0 开始
func (t *Tree) Walk(visitor NodeVisitor) error {
	return t.walk("", 0, visitor)
}

// WalkFrom 访问 path 之下的节点，path 本身不被访问
func (t *Tree) WalkFrom(path string, visitor NodeVisitor) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if err := t.checkFolder("walk", p); err != nil {
		return err
	}
	depth := 0
	if p != "" {
		depth = t.depthOf(p) + 1
	}
	return t.walk(p, depth, visitor)
}

func (t *Tree) walk(p string, depth int, visitor NodeVisitor) error {
	for _, k := range t.children[p] {
		n := t.nodes[k]
		if n.IsFile() {
			if err := visitor.VisitFile(n, depth); err != nil {
				return &walkError{Path: k, Err: err}
			}
			continue
		}

		err := visitor.VisitFolder(n, depth)
		if errors.Is(err, SkipFolder) {
			continue
		}
		if err != nil {
			return &walkError{Path: k, Err: err}
		}
		if err := t.walk(k, depth+1, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) depthOf(p string) int {
	d := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			d++
		}
	}
	return d
}
