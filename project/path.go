package project

import (
	"strings"

	"github.com/sjzsdu/workbench/helper"
)

// NormalizePath 规范化路径，结果不以 / 开头，根为 ""
// 越过根目录的 .. 会返回 ErrInvalidPath
func NormalizePath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", pathError("normalize", p, ErrInvalidPath)
			}
		default:
			depth++
		}
	}
	return helper.StandardizePath(p), nil
}

// ValidateName 检查节点名称
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, "/\\"):
		return ErrInvalidName
	case strings.TrimSpace(name) != name:
		return ErrInvalidName
	}
	return nil
}
