package project

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree 按给定路径构建测试树，以 / 结尾的路径为文件夹
func buildTree(t *testing.T, paths ...string) *Tree {
	t.Helper()
	tree := New()
	var err error
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			tree, err = tree.MkdirAll(p)
		} else {
			tree, err = tree.WriteFile(p, "content of "+p)
		}
		require.NoError(t, err)
	}
	return tree
}

func TestInsert(t *testing.T) {
	tree := buildTree(t, "src/", "README.md")

	tests := []struct {
		name    string
		parent  string
		node    *Node
		wantErr error
	}{
		{name: "插入到根", parent: "", node: NewFile("main.js", "x"), wantErr: nil},
		{name: "插入到子目录", parent: "src", node: NewFolder("lib"), wantErr: nil},
		{name: "父目录不存在", parent: "missing", node: NewFile("a.js", ""), wantErr: ErrNotFound},
		{name: "父节点是文件", parent: "README.md", node: NewFile("a.js", ""), wantErr: ErrNotFolder},
		{name: "名称重复", parent: "", node: NewFile("README.md", ""), wantErr: ErrExists},
		{name: "名称包含分隔符", parent: "", node: NewFile("a/b", ""), wantErr: ErrInvalidName},
		{name: "空名称", parent: "", node: NewFile("", ""), wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tree.Insert(tt.parent, tt.node)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Same(t, tree, next)
				return
			}
			require.NoError(t, err)
			assert.NotSame(t, tree, next)
			assert.Greater(t, next.Version(), tree.Version())
			assert.Equal(t, tree.Len()+1, next.Len())
		})
	}
}

func TestFolderNeverHoldsContent(t *testing.T) {
	folder := &Node{Name: "docs", Kind: KindFolder, Content: "ignored"}
	tree, err := New().Insert("", folder)
	require.NoError(t, err)

	n, err := tree.Find("docs")
	require.NoError(t, err)
	assert.Empty(t, n.Content)
	assert.Equal(t, "docs", n.Path)

	_, err = tree.SetContent("docs", "x")
	assert.ErrorIs(t, err, ErrNotFile)

	_, err = tree.Insert("docs/../docs", NewFile("a.md", ""))
	assert.NoError(t, err)
}

func TestPersistence(t *testing.T) {
	before := buildTree(t, "a/b/c.js", "a/d.css")
	after, err := before.Remove("a/b")
	require.NoError(t, err)

	assert.True(t, before.Exists("a/b/c.js"))
	assert.False(t, after.Exists("a/b/c.js"))

	renamed, err := before.Rename("a/d.css", "e.css")
	require.NoError(t, err)
	assert.True(t, before.Exists("a/d.css"))
	assert.True(t, renamed.Exists("a/e.css"))

	edited, err := before.SetContent("a/d.css", "body{}")
	require.NoError(t, err)
	old, _ := before.Find("a/d.css")
	cur, _ := edited.Find("a/d.css")
	assert.Equal(t, "content of a/d.css", old.Content)
	assert.Equal(t, "body{}", cur.Content)
}

func TestRemoveCascade(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 30; round++ {
		tree := randomTree(t, rng, 40)
		folders := tree.CollectMatching(func(n *Node) bool { return n.IsDir() })
		if len(folders) == 0 {
			continue
		}
		victim := folders[rng.Intn(len(folders))].Path

		next, err := tree.Remove(victim)
		require.NoError(t, err)
		assert.False(t, next.Exists(victim))
		for _, p := range next.Paths() {
			assert.False(t, strings.HasPrefix(p, victim+"/"), "残留后代 %s", p)
		}

		removed := 1
		for _, p := range tree.Paths() {
			if strings.HasPrefix(p, victim+"/") {
				removed++
			}
		}
		assert.Equal(t, tree.Len()-removed, next.Len())
		assertConsistent(t, next)
	}
}

func TestRenamePrefixRewrite(t *testing.T) {
	tree := buildTree(t, "a/b/one.js", "a/b/deep/two.js", "a/bb/three.js", "a/c.js", "b/four.js")

	next, err := tree.Rename("a/b", "x")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"a", "a/x", "a/x/one.js", "a/x/deep", "a/x/deep/two.js",
		"a/bb", "a/bb/three.js", "a/c.js", "b", "b/four.js",
	}, next.Paths())

	// 重命名保持兄弟顺序
	kids, err := next.Children("a")
	require.NoError(t, err)
	assert.Equal(t, "x", kids[0].Name)

	n, err := next.Find("a/x/deep/two.js")
	require.NoError(t, err)
	assert.Equal(t, "content of a/b/deep/two.js", n.Content)
	assertConsistent(t, next)
}

func TestRenameErrors(t *testing.T) {
	tree := buildTree(t, "a/one.js", "a/two.js")

	_, err := tree.Rename("missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tree.Rename("a/one.js", "two.js")
	assert.ErrorIs(t, err, ErrExists)

	_, err = tree.Rename("", "x")
	assert.ErrorIs(t, err, ErrRoot)

	_, err = tree.Rename("a/one.js", "bad/name")
	assert.ErrorIs(t, err, ErrInvalidName)

	same, err := tree.Rename("a/one.js", "one.js")
	require.NoError(t, err)
	assert.Same(t, tree, same)

	var pe *PathError
	_, err = tree.Rename("nope", "x")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "rename", pe.Op)
	assert.Equal(t, "nope", pe.Path)
}

func TestMove(t *testing.T) {
	tree := buildTree(t, "src/app.js", "src/lib/util.js", "dest/")

	next, err := tree.Move("src/lib", "dest")
	require.NoError(t, err)
	assert.True(t, next.Exists("dest/lib/util.js"))
	assert.False(t, next.Exists("src/lib"))
	assertConsistent(t, next)

	_, err = tree.Move("src", "src/lib")
	assert.ErrorIs(t, err, ErrCycle)

	_, err = tree.Move("src/app.js", "src/app.js")
	assert.ErrorIs(t, err, ErrNotFolder)

	toRoot, err := tree.Move("src/lib/util.js", "")
	require.NoError(t, err)
	assert.True(t, toRoot.Exists("util.js"))
}

func TestListAllFilesOrder(t *testing.T) {
	tree := buildTree(t, "b.js", "a/z.js", "a/y/x.js", "c.css")

	var names []string
	for _, f := range tree.ListAllFiles() {
		names = append(names, f.Path)
	}
	assert.Equal(t, []string{"b.js", "a/z.js", "a/y/x.js", "c.css"}, names)

	first, ok := tree.FirstFile()
	require.True(t, ok)
	assert.Equal(t, "b.js", first.Path)

	_, ok = New().FirstFile()
	assert.False(t, ok)

	files, folders := tree.Stats()
	assert.Equal(t, 4, files)
	assert.Equal(t, 2, folders)
}

func TestWalk(t *testing.T) {
	tree := buildTree(t, "a/b/c.js", "a/d.js", "node/x.js", "e.js")

	var visited []string
	err := tree.Walk(&FilteredVisitor{
		Visitor: VisitorFunc(func(n *Node, depth int) error {
			visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Path))
			return nil
		}),
		FolderFilter: func(n *Node) bool { return n.Name != "node" },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0:a", "1:a/b", "2:a/b/c.js", "1:a/d.js", "0:e.js"}, visited)

	boom := fmt.Errorf("boom")
	err = tree.Walk(VisitorFunc(func(n *Node, depth int) error {
		if n.Path == "a/d.js" {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a/d.js")

	visited = nil
	require.NoError(t, tree.WalkFrom("a", VisitorFunc(func(n *Node, depth int) error {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Path))
		return nil
	})))
	assert.Equal(t, []string{"1:a/b", "2:a/b/c.js", "1:a/d.js"}, visited)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "/", want: ""},
		{in: "/a//b/", want: "a/b"},
		{in: `a\b\c.js`, want: "a/b/c.js"},
		{in: "a/./b/../c", want: "a/c"},
		{in: "../etc", wantErr: true},
		{in: "a/../../b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tree := buildTree(t, "empty/", "a/b.js", "index.html")
	restored, err := FromSnapshot(tree.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, tree.Paths(), restored.Paths())

	n, err := restored.Find("a/b.js")
	require.NoError(t, err)
	assert.Equal(t, "content of a/b.js", n.Content)

	_, err = FromSnapshot(Snapshot{Entries: []SnapshotEntry{{Path: "x", Kind: "link"}}})
	assert.Error(t, err)
}

func randomTree(t *testing.T, rng *rand.Rand, size int) *Tree {
	t.Helper()
	tree := New()
	folders := []string{""}
	for i := 0; i < size; i++ {
		parent := folders[rng.Intn(len(folders))]
		var err error
		if rng.Intn(3) == 0 {
			tree, err = tree.Insert(parent, NewFolder(fmt.Sprintf("d%d", i)))
			require.NoError(t, err)
			folders = append(folders, joinForTest(parent, fmt.Sprintf("d%d", i)))
			continue
		}
		tree, err = tree.Insert(parent, NewFile(fmt.Sprintf("f%d.js", i), ""))
		require.NoError(t, err)
	}
	return tree
}

func joinForTest(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// assertConsistent 检查路径、父子关系和子列表一致
func assertConsistent(t *testing.T, tree *Tree) {
	t.Helper()
	seen := map[string]bool{}
	for parent, kids := range tree.children {
		if parent != "" {
			n, ok := tree.nodes[parent]
			require.True(t, ok, "子列表的父节点 %s 不存在", parent)
			assert.True(t, n.IsDir())
		}
		for _, k := range kids {
			n, ok := tree.nodes[k]
			require.True(t, ok, "子节点 %s 不存在", k)
			assert.Equal(t, k, n.Path)
			assert.Equal(t, parent, parentForTest(k))
			assert.False(t, seen[k])
			seen[k] = true
		}
	}
	assert.Equal(t, len(tree.nodes), len(seen))
}

func parentForTest(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}
