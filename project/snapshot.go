package project

import "fmt"

// SnapshotEntry 是快照中的一个节点
type SnapshotEntry struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
}

// Snapshot 是项目树的可序列化形式，节点按前序排列
type Snapshot struct {
	Name    string          `json:"name,omitempty"`
	Version uint64          `json:"version"`
	Entries []SnapshotEntry `json:"entries"`
}

// Snapshot 生成当前树的快照
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{Version: t.version, Entries: make([]SnapshotEntry, 0, len(t.nodes))}
	t.dfs("", func(n *Node, _ int) bool {
		s.Entries = append(s.Entries, SnapshotEntry{Path: n.Path, Kind: n.Kind.String(), Content: n.Content})
		return true
	})
	return s
}

// FromSnapshot 从快照恢复项目树
func FromSnapshot(s Snapshot) (*Tree, error) {
	t := New()
	var err error
	for _, e := range s.Entries {
		switch e.Kind {
		case KindFolder.String():
			t, err = t.MkdirAll(e.Path)
		case KindFile.String():
			t, err = t.WriteFile(e.Path, e.Content)
		default:
			err = fmt.Errorf("unknown kind %q at %q", e.Kind, e.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
	}
	return t, nil
}
