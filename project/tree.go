// Package project 实现内存中的项目树
//
// 树以路径为键存放节点，另用父路径到子路径列表的映射记录结构，
// 所有修改都返回新的 *Tree，旧值保持不变，便于变更检测和并发读取。
package project

// Tree 是不可变的项目树
type Tree struct {
	nodes    map[string]*Node
	children map[string][]string
	version  uint64
}

// New 创建只包含根的空树
func New() *Tree {
	return &Tree{
		nodes:    map[string]*Node{},
		children: map[string][]string{"": nil},
	}
}

// Version 每次成功修改后递增
func (t *Tree) Version() uint64 {
	return t.version
}

// Len 返回节点数量，不含根
func (t *Tree) Len() int {
	return len(t.nodes)
}

// mutable 返回一份可修改的副本
//
// 节点本身是不可变的，只复制两层映射和子路径切片头。
func (t *Tree) mutable() *Tree {
	nt := &Tree{
		nodes:    make(map[string]*Node, len(t.nodes)+1),
		children: make(map[string][]string, len(t.children)+1),
		version:  t.version + 1,
	}
	for k, v := range t.nodes {
		nt.nodes[k] = v
	}
	for k, v := range t.children {
		nt.children[k] = v
	}
	return nt
}

// setChildren 替换子路径列表，总是分配新切片以免影响旧树
func (t *Tree) setChildren(parent string, kids []string) {
	t.children[parent] = kids
}

func (t *Tree) appendChild(parent, child string) {
	old := t.children[parent]
	kids := make([]string, len(old), len(old)+1)
	copy(kids, old)
	t.setChildren(parent, append(kids, child))
}

func (t *Tree) removeChild(parent, child string) {
	old := t.children[parent]
	kids := make([]string, 0, len(old))
	for _, k := range old {
		if k != child {
			kids = append(kids, k)
		}
	}
	t.setChildren(parent, kids)
}

func (t *Tree) isFolder(p string) bool {
	if p == "" {
		return true
	}
	n, ok := t.nodes[p]
	return ok && n.IsDir()
}

// subtree 返回 p 及其所有后代，前序
func (t *Tree) subtree(p string) []string {
	out := []string{p}
	for _, c := range t.children[p] {
		out = append(out, t.subtree(c)...)
	}
	return out
}
