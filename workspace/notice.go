package workspace

import (
	"errors"

	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/storage"
)

// NoticeLevel 通知级别
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice 是一条可关闭的用户通知
type Notice struct {
	ID      int
	Level   NoticeLevel
	Message string // 已本地化
	Err     error
}

type noticeBoard struct {
	next     int
	items    []Notice
	handlers []func(Notice)
}

// Notices 返回尚未关闭的通知，按时间顺序
func (w *Workspace) Notices() []Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Notice(nil), w.notices.items...)
}

// Dismiss 关闭通知，不存在时返回 false
func (w *Workspace) Dismiss(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, n := range w.notices.items {
		if n.ID == id {
			w.notices.items = append(w.notices.items[:i], w.notices.items[i+1:]...)
			return true
		}
	}
	return false
}

// OnNotice 注册通知回调，回调在锁外执行
func (w *Workspace) OnNotice(fn func(Notice)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notices.handlers = append(w.notices.handlers, fn)
}

func (w *Workspace) notify(level NoticeLevel, messageID string, err error) Notice {
	return w.notifyText(level, lang.T(messageID), err)
}

func (w *Workspace) notifyText(level NoticeLevel, message string, err error) Notice {
	w.mu.Lock()
	w.notices.next++
	n := Notice{ID: w.notices.next, Level: level, Message: message, Err: err}
	w.notices.items = append(w.notices.items, n)
	handlers := w.notices.handlers
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(n)
	}
	return n
}

// fail 把模型或能力错误转为通知并原样返回
func (w *Workspace) fail(err error) error {
	if err == nil {
		return nil
	}
	w.notify(NoticeError, messageFor(err), err)
	return err
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return "File not found"
	case errors.Is(err, project.ErrExists):
		return "File already exists"
	case errors.Is(err, project.ErrInvalidName), errors.Is(err, project.ErrInvalidPath):
		return "Invalid name"
	case errors.Is(err, project.ErrNotFolder):
		return "Not a folder"
	case errors.Is(err, project.ErrNotFile):
		return "Not a file"
	case errors.Is(err, project.ErrRoot):
		return "Operation not allowed on the project root"
	case errors.Is(err, project.ErrCycle):
		return "Cannot move a folder into itself"
	case errors.Is(err, storage.ErrUnavailable):
		return "Storage unavailable"
	case errors.Is(err, ErrNoRecords):
		return "Project record unavailable"
	}
	return "Operation failed"
}
