package project

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("node not found")
	ErrExists      = errors.New("node already exists")
	ErrNotFolder   = errors.New("not a folder")
	ErrNotFile     = errors.New("not a file")
	ErrInvalidName = errors.New("invalid node name")
	ErrInvalidPath = errors.New("invalid path")
	ErrRoot        = errors.New("operation not allowed on root")
	ErrCycle       = errors.New("cannot move a folder into itself")
)

// PathError 记录出错的操作和路径
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func pathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// walkError 封装遍历过程中访问器返回的错误
type walkError struct {
	Path string
	Err  error
}

func (e *walkError) Error() string {
	return fmt.Sprintf("遍历错误 [%s]: %v", e.Path, e.Err)
}

func (e *walkError) Unwrap() error { return e.Err }
