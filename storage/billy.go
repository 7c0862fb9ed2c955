package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sjzsdu/workbench/helper"
)

// FS 是基于 billy.Filesystem 的存储实现
type FS struct {
	fs billy.Filesystem
}

// New 包装一个 billy 文件系统
func New(fs billy.Filesystem) *FS {
	return &FS{fs: fs}
}

// NewMemory 创建纯内存存储
func NewMemory() *FS {
	return New(memfs.New())
}

// NewOS 创建以 dir 为根的磁盘存储
func NewOS(dir string) *FS {
	return New(osfs.New(dir))
}

// Filesystem 返回底层文件系统
func (s *FS) Filesystem() billy.Filesystem {
	return s.fs
}

// Root 返回存储根目录
func (s *FS) Root() string {
	return s.fs.Root()
}

func clean(p string) string {
	p = helper.StandardizePath(p)
	if p == "" {
		return "."
	}
	return p
}

func mapError(op, p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
		return fmt.Errorf("%s %q: %w", op, p, ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w", op, p, err)
}

// Read 读取文件文本
func (s *FS) Read(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := util.ReadFile(s.fs, clean(p))
	if err != nil {
		return "", mapError("read", p, err)
	}
	return string(data), nil
}

// Write 写入文件，父目录不存在时自动创建
func (s *FS) Write(ctx context.Context, p string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = clean(p)
	if dir := path.Dir(p); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return mapError("write", p, err)
		}
	}
	if err := util.WriteFile(s.fs, p, []byte(text), 0644); err != nil {
		return mapError("write", p, err)
	}
	return nil
}

// List 列出目录下的条目，按名称排序
func (s *FS) List(ctx context.Context, p string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := clean(p)
	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		// 空存储的根目录视为空目录
		if dir == "." && errors.Is(mapError("list", p, err), ErrNotFound) {
			return []Entry{}, nil
		}
		return nil, mapError("list", p, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == "." || name == ".." || name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, IsDir: info.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Remove 删除文件或目录
func (s *FS) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := util.RemoveAll(s.fs, clean(p)); err != nil {
		return mapError("remove", p, err)
	}
	return nil
}

// Rename 移动文件或目录
func (s *FS) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = clean(to)
	if dir := path.Dir(to); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return mapError("rename", to, err)
		}
	}
	if err := s.fs.Rename(clean(from), to); err != nil {
		return mapError("rename", from, err)
	}
	return nil
}

// Remover 是可选的删除能力
type Remover interface {
	Remove(ctx context.Context, path string) error
}

// Renamer 是可选的移动能力
type Renamer interface {
	Rename(ctx context.Context, from, to string) error
}

var (
	_ Storage = (*FS)(nil)
	_ Remover = (*FS)(nil)
	_ Renamer = (*FS)(nil)
)
