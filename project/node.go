package project

// Kind 节点类型
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node 表示项目树中的一个文件或文件夹
//
// 放入树之后的 Node 不会被修改，所有变更都会产生新的 Node。
type Node struct {
	Name    string
	Kind    Kind
	Path    string
	Content string // 仅文件有效
	Handle  any    // 外部存储句柄，对树不透明
}

// NewFile 创建文件节点
func NewFile(name, content string) *Node {
	return &Node{Name: name, Kind: KindFile, Content: content}
}

// NewFolder 创建文件夹节点
func NewFolder(name string) *Node {
	return &Node{Name: name, Kind: KindFolder}
}

// IsDir 判断是否是文件夹
func (n *Node) IsDir() bool {
	return n != nil && n.Kind == KindFolder
}

// IsFile 判断是否是文件
func (n *Node) IsFile() bool {
	return n != nil && n.Kind == KindFile
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}
