package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sjzsdu/workbench/helper"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("json file not found")

// JSONStore 把命名的值保存为目录下的 JSON 文件
type JSONStore struct {
	// 完整目录路径
	Path string
}

// NewJSONStoreAt 在指定目录下创建JSONStore，目录不存在时自动创建
func NewJSONStoreAt(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败 %s: %w", dir, err)
	}
	return &JSONStore{Path: dir}, nil
}

func (s *JSONStore) file(name string) string {
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	return filepath.Join(s.Path, name)
}

// Get 读取 JSON 文件，decodeInto 不为 nil 时解码到其中
func (s *JSONStore) Get(name string, decodeInto interface{}) ([]byte, error) {
	data, err := os.ReadFile(s.file(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("读取文件失败 %s: %w", name, err)
	}
	if decodeInto != nil {
		if err := json.Unmarshal(data, decodeInto); err != nil {
			return data, fmt.Errorf("解析JSON失败 %s: %w", name, err)
		}
	}
	return data, nil
}

// Set 写入 JSON 文件；[]byte 需要已经是合法 JSON，其它值会被编码
func (s *JSONStore) Set(name string, data interface{}) error {
	var raw []byte
	switch v := data.(type) {
	case []byte:
		if !json.Valid(v) {
			return fmt.Errorf("提供的数据不是有效的JSON")
		}
		raw = v
	default:
		var err error
		raw, err = json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("编码为JSON失败: %w", err)
		}
	}
	if err := helper.WriteFile(s.file(name), raw); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", name, err)
	}
	return nil
}

// Delete 删除 JSON 文件
func (s *JSONStore) Delete(name string) error {
	err := os.Remove(s.file(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return err
}

// Exists 检查 JSON 文件是否存在
func (s *JSONStore) Exists(name string) bool {
	_, err := os.Stat(s.file(name))
	return err == nil
}

// List 按名称排序列出所有 JSON 文件，不带扩展名
func (s *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败 %s: %w", s.Path, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		names = append(names, name[:len(name)-len(".json")])
	}
	sort.Strings(names)
	return names, nil
}
