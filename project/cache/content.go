package cache

import (
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/share"
)

// ContentCache 缓存文件路径到文本的映射
//
// 缓存只是派生状态，随时可以清空，未命中应当视为内容为空而不是错误。
type ContentCache struct {
	*LRU[string, string]
}

// NewContentCache 创建内容缓存，capacity <= 0 时使用默认容量
func NewContentCache(capacity int) *ContentCache {
	if capacity <= 0 {
		capacity = share.CACHE_SIZE
	}
	return &ContentCache{LRU: NewLRU[string, string](capacity)}
}

// Rename 把 oldPrefix 及其后代的条目移到 newPrefix 下，保持相对顺序
func (c *ContentCache) Rename(oldPrefix, newPrefix string) {
	keys := c.Keys()
	// 从最久未使用开始写回，使最近使用的条目仍在前面
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		if !helper.IsSelfOrDescendant(k, oldPrefix) {
			continue
		}
		v, ok := c.Peek(k)
		if !ok {
			continue
		}
		c.Delete(k)
		c.Set(helper.ReplacePrefix(k, oldPrefix, newPrefix), v)
	}
}

// DeletePrefix 删除 prefix 及其后代的条目，返回删除数量
func (c *ContentCache) DeletePrefix(prefix string) int {
	n := 0
	for _, k := range c.Keys() {
		if helper.IsSelfOrDescendant(k, prefix) && c.Delete(k) {
			n++
		}
	}
	return n
}
