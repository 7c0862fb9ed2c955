package helper

import (
	"path"
	"strings"
)

// StandardizePath 标准化路径：统一分隔符、去掉首尾的 / 以及多余的 //
// 返回的路径不以 / 开头，根路径返回空字符串
func StandardizePath(p string) string {
	// 处理 Windows 路径分隔符
	cleanPath := strings.ReplaceAll(p, "\\", "/")
	if cleanPath == "" {
		return ""
	}

	cleanPath = path.Clean("/" + cleanPath)
	return strings.Trim(cleanPath, "/")
}

// ParentPath 返回父路径，顶层节点的父路径为空字符串
func ParentPath(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// BaseName 返回路径最后一段
func BaseName(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// JoinPath 拼接父路径和名称，父路径为空时直接返回名称
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// IsDescendant 判断 p 是否位于 ancestor 之下（不含 ancestor 本身）
// 空的 ancestor 表示根，所有非空路径都是它的后代
func IsDescendant(p, ancestor string) bool {
	if ancestor == "" {
		return p != ""
	}
	return strings.HasPrefix(p, ancestor+"/")
}

// IsSelfOrDescendant 判断 p 是否是 ancestor 本身或其后代
func IsSelfOrDescendant(p, ancestor string) bool {
	return p == ancestor || IsDescendant(p, ancestor)
}

// ReplacePrefix 把 p 的 oldPrefix 前缀替换为 newPrefix
// p 不在 oldPrefix 之下时原样返回
func ReplacePrefix(p, oldPrefix, newPrefix string) string {
	if p == oldPrefix {
		return newPrefix
	}
	if !IsDescendant(p, oldPrefix) {
		return p
	}
	return JoinPath(newPrefix, strings.TrimPrefix(p, oldPrefix+"/"))
}

// Ancestors 返回从顶层到直接父级的所有祖先路径
func Ancestors(p string) []string {
	var result []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			result = append(result, p[:i])
		}
	}
	return result
}
