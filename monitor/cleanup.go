package monitor

import (
	"errors"
	"fmt"
	"sync"
)

// CleanupManager 保存清理回调，每个回调最多执行一次
type CleanupManager struct {
	mu      sync.Mutex
	nextID  int
	entries []*cleanup
}

type cleanup struct {
	id   int
	name string
	fn   func() error
	once sync.Once
	err  error
}

func (c *cleanup) run() error {
	c.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("cleanup %s panicked: %v", c.name, r)
			}
		}()
		if err := c.fn(); err != nil {
			c.err = fmt.Errorf("cleanup %s: %w", c.name, err)
		}
	})
	return c.err
}

// NewCleanupManager 创建清理管理器
func NewCleanupManager() *CleanupManager {
	return &CleanupManager{}
}

// Register 注册清理回调并返回它的 ID
func (m *CleanupManager) Register(name string, fn func() error) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.entries = append(m.entries, &cleanup{id: m.nextID, name: name, fn: fn})
	return m.nextID
}

// Invalidate 立即执行指定回调并移除，ID 不存在时返回 nil
func (m *CleanupManager) Invalidate(id int) error {
	m.mu.Lock()
	var target *cleanup
	for i, c := range m.entries {
		if c.id == id {
			target = c
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if target == nil {
		return nil
	}
	return target.run()
}

// Len 返回尚未执行的回调数量
func (m *CleanupManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RunAll 按注册的逆序执行所有回调，返回合并后的错误
func (m *CleanupManager) RunAll() error {
	m.mu.Lock()
	entries := m.entries
	m.entries = nil
	m.mu.Unlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		if err := entries[i].run(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
