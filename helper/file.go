package helper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjzsdu/workbench/share"
)

// GetPath 返回用户目录下 .workbench 中的路径，name 为空时返回目录本身
func GetPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	dir := filepath.Join(home, share.PATH)
	if name == "" {
		return dir
	}
	return filepath.Join(dir, name)
}

// WriteFile 写入文件，必要时创建父目录
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败 %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0644)
}
