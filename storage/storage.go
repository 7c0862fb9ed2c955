// Package storage 定义可选的存储能力，并提供基于 go-billy 的实现
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound 路径不存在
	ErrNotFound = errors.New("storage: not found")
	// ErrUnavailable 存储能力不可用
	ErrUnavailable = errors.New("storage: unavailable")
)

// Entry 是 List 返回的目录项
type Entry struct {
	Name  string
	IsDir bool
}

// Reader 读取文本和目录
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
	List(ctx context.Context, path string) ([]Entry, error)
}

// Writer 写入文本
type Writer interface {
	Write(ctx context.Context, path string, text string) error
}

// Storage 是完整的存储能力，路径使用 / 分隔且相对于存储根目录
type Storage interface {
	Reader
	Writer
}
