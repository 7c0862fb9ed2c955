package project

import (
	"github.com/sjzsdu/workbench/helper"
)

// Insert 在 parentPath 下插入节点，parentPath 为 "" 表示根
// 失败时返回原树和错误
func (t *Tree) Insert(parentPath string, node *Node) (*Tree, error) {
	parent, err := NormalizePath(parentPath)
	if err != nil {
		return t, err
	}
	if node == nil {
		return t, pathError("insert", parent, ErrInvalidName)
	}
	if err := t.checkFolder("insert", parent); err != nil {
		return t, err
	}
	if err := ValidateName(node.Name); err != nil {
		return t, pathError("insert", helper.JoinPath(parent, node.Name), err)
	}

	p := helper.JoinPath(parent, node.Name)
	if _, ok := t.nodes[p]; ok {
		return t, pathError("insert", p, ErrExists)
	}

	n := node.clone()
	n.Path = p
	if n.IsDir() {
		n.Content = ""
	}

	nt := t.mutable()
	nt.nodes[p] = n
	nt.appendChild(parent, p)
	if n.IsDir() {
		nt.children[p] = nil
	}
	return nt, nil
}

// Remove 删除节点及其所有后代
func (t *Tree) Remove(path string) (*Tree, error) {
	p, err := t.existing("remove", path)
	if err != nil {
		return t, err
	}

	nt := t.mutable()
	for _, q := range t.subtree(p) {
		delete(nt.nodes, q)
		delete(nt.children, q)
	}
	nt.removeChild(helper.ParentPath(p), p)
	return nt, nil
}

// Rename 修改节点名称，文件夹的所有后代路径一并改写
func (t *Tree) Rename(path, newName string) (*Tree, error) {
	p, err := t.existing("rename", path)
	if err != nil {
		return t, err
	}
	if err := ValidateName(newName); err != nil {
		return t, pathError("rename", p, err)
	}

	parent := helper.ParentPath(p)
	np := helper.JoinPath(parent, newName)
	if np == p {
		return t, nil
	}
	if _, ok := t.nodes[np]; ok {
		return t, pathError("rename", np, ErrExists)
	}

	nt := t.mutable()
	nt.relocate(p, np)

	// 保持在兄弟中的位置
	old := t.children[parent]
	kids := make([]string, len(old))
	for i, k := range old {
		if k == p {
			k = np
		}
		kids[i] = k
	}
	nt.setChildren(parent, kids)
	return nt, nil
}

// Move 把节点移动到 newParent 下，名称不变
func (t *Tree) Move(path, newParent string) (*Tree, error) {
	p, err := t.existing("move", path)
	if err != nil {
		return t, err
	}
	dest, err := NormalizePath(newParent)
	if err != nil {
		return t, err
	}
	if err := t.checkFolder("move", dest); err != nil {
		return t, err
	}
	if helper.IsSelfOrDescendant(dest, p) {
		return t, pathError("move", dest, ErrCycle)
	}

	np := helper.JoinPath(dest, helper.BaseName(p))
	if np == p {
		return t, nil
	}
	if _, ok := t.nodes[np]; ok {
		return t, pathError("move", np, ErrExists)
	}

	nt := t.mutable()
	nt.relocate(p, np)
	nt.removeChild(helper.ParentPath(p), p)
	nt.appendChild(dest, np)
	return nt, nil
}

// SetContent 替换文件内容
func (t *Tree) SetContent(path, content string) (*Tree, error) {
	p, err := t.existing("set content", path)
	if err != nil {
		return t, err
	}
	n := t.nodes[p]
	if !n.IsFile() {
		return t, pathError("set content", p, ErrNotFile)
	}
	if n.Content == content {
		return t, nil
	}

	c := n.clone()
	c.Content = content
	nt := t.mutable()
	nt.nodes[p] = c
	return nt, nil
}

// SetHandle 记录节点对应的外部存储句柄
func (t *Tree) SetHandle(path string, handle any) (*Tree, error) {
	p, err := t.existing("set handle", path)
	if err != nil {
		return t, err
	}
	c := t.nodes[p].clone()
	c.Handle = handle
	nt := t.mutable()
	nt.nodes[p] = c
	return nt, nil
}

// MkdirAll 依次创建 path 上缺失的文件夹
func (t *Tree) MkdirAll(path string) (*Tree, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return t, err
	}
	if p == "" {
		return t, nil
	}

	cur := t
	for _, dir := range append(helper.Ancestors(p), p) {
		n, ok := cur.nodes[dir]
		if ok {
			if !n.IsDir() {
				return t, pathError("mkdir", dir, ErrNotFolder)
			}
			continue
		}
		next, err := cur.Insert(helper.ParentPath(dir), NewFolder(helper.BaseName(dir)))
		if err != nil {
			return t, err
		}
		cur = next
	}
	return cur, nil
}

// WriteFile 写入文件内容，文件或父目录不存在时自动创建
func (t *Tree) WriteFile(path, content string) (*Tree, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return t, err
	}
	if p == "" {
		return t, pathError("write", p, ErrRoot)
	}
	if n, ok := t.nodes[p]; ok {
		if !n.IsFile() {
			return t, pathError("write", p, ErrNotFile)
		}
		return t.SetContent(p, content)
	}

	nt, err := t.MkdirAll(helper.ParentPath(p))
	if err != nil {
		return t, err
	}
	nt, err = nt.Insert(helper.ParentPath(p), NewFile(helper.BaseName(p), content))
	if err != nil {
		return t, err
	}
	return nt, nil
}

// relocate 把 oldPath 子树整体改写到 newPath，调用方负责父节点的子列表
func (t *Tree) relocate(oldPath, newPath string) {
	moved := t.subtree(oldPath)

	nodes := make([]*Node, len(moved))
	kids := make([][]string, len(moved))
	hasKids := make([]bool, len(moved))
	for i, q := range moved {
		nodes[i] = t.nodes[q]
		kids[i], hasKids[i] = t.children[q]
		delete(t.nodes, q)
		delete(t.children, q)
	}

	for i, q := range moved {
		np := helper.ReplacePrefix(q, oldPath, newPath)
		c := nodes[i].clone()
		c.Path = np
		c.Name = helper.BaseName(np)
		t.nodes[np] = c

		if hasKids[i] {
			rewritten := make([]string, len(kids[i]))
			for j, k := range kids[i] {
				rewritten[j] = helper.ReplacePrefix(k, oldPath, newPath)
			}
			t.children[np] = rewritten
		}
	}
}

func (t *Tree) existing(op, path string) (string, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", pathError(op, p, ErrRoot)
	}
	if _, ok := t.nodes[p]; !ok {
		return "", pathError(op, p, ErrNotFound)
	}
	return p, nil
}

func (t *Tree) checkFolder(op, p string) error {
	if t.isFolder(p) {
		return nil
	}
	if _, ok := t.nodes[p]; ok {
		return pathError(op, p, ErrNotFolder)
	}
	return pathError(op, p, ErrNotFound)
}
