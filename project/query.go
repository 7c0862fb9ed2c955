package project

// Find 查找节点
func (t *Tree) Find(path string) (*Node, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	n, ok := t.nodes[p]
	if !ok {
		return nil, pathError("find", p, ErrNotFound)
	}
	return n, nil
}

// Exists 判断路径是否存在，根总是存在
func (t *Tree) Exists(path string) bool {
	p, err := NormalizePath(path)
	if err != nil {
		return false
	}
	if p == "" {
		return true
	}
	_, ok := t.nodes[p]
	return ok
}

// Children 返回文件夹的直接子节点，保持插入顺序
func (t *Tree) Children(path string) ([]*Node, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	if err := t.checkFolder("children", p); err != nil {
		return nil, err
	}

	kids := t.children[p]
	out := make([]*Node, 0, len(kids))
	for _, k := range kids {
		out = append(out, t.nodes[k])
	}
	return out, nil
}

// ListAllFiles 按深度优先顺序返回所有文件
func (t *Tree) ListAllFiles() []*Node {
	return t.CollectMatching(func(n *Node) bool { return n.IsFile() })
}

// CollectMatching 按深度优先顺序返回满足条件的节点
func (t *Tree) CollectMatching(pred func(*Node) bool) []*Node {
	var out []*Node
	t.dfs("", func(n *Node, _ int) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FirstFile 返回深度优先顺序的第一个文件
func (t *Tree) FirstFile() (*Node, bool) {
	var first *Node
	t.dfs("", func(n *Node, _ int) bool {
		if n.IsFile() {
			first = n
			return false
		}
		return true
	})
	return first, first != nil
}

// Paths 按深度优先顺序返回所有路径
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.nodes))
	t.dfs("", func(n *Node, _ int) bool {
		out = append(out, n.Path)
		return true
	})
	return out
}

// Stats 统计文件和文件夹数量
func (t *Tree) Stats() (files, folders int) {
	for _, n := range t.nodes {
		if n.IsDir() {
			folders++
		} else {
			files++
		}
	}
	return files, folders
}

// FindByName 返回所有名称为 name 的文件
func (t *Tree) FindByName(name string) []*Node {
	return t.CollectMatching(func(n *Node) bool {
		return n.IsFile() && n.Name == name
	})
}

// dfs 前序遍历 from 的后代，fn 返回 false 时终止
func (t *Tree) dfs(from string, fn func(n *Node, depth int) bool) bool {
	base := 0
	if from != "" {
		base = t.depthOf(from) + 1
	}
	return t.dfsAt(from, base, fn)
}

func (t *Tree) dfsAt(p string, depth int, fn func(*Node, int) bool) bool {
	for _, k := range t.children[p] {
		if !fn(t.nodes[k], depth) {
			return false
		}
		if !t.dfsAt(k, depth+1, fn) {
			return false
		}
	}
	return true
}
