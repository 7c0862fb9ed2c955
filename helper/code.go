package helper

import (
	"path/filepath"
	"strings"
)

// 语言标识
const (
	LangJavaScript = "javascript"
	LangJSX        = "jsx"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangPython     = "python"
	LangHTML       = "html"
	LangCSS        = "css"
	LangSCSS       = "scss"
	LangLess       = "less"
	LangMarkdown   = "markdown"
	LangJSON       = "json"
)

var langMap = map[string]string{
	".js":         LangJavaScript,
	".mjs":        LangJavaScript,
	".cjs":        LangJavaScript,
	".jsx":        LangJSX,
	".ts":         LangTypeScript,
	".mts":        LangTypeScript,
	".tsx":        LangTSX,
	".py":         LangPython,
	".html":       LangHTML,
	".htm":        LangHTML,
	".css":        LangCSS,
	".scss":       LangSCSS,
	".less":       LangLess,
	".md":         LangMarkdown,
	".markdown":   LangMarkdown,
	".json":       LangJSON,
	".go":         "go",
	".java":       "java",
	".c":          "c",
	".h":          "c",
	".cpp":        "cpp",
	".rs":         "rust",
	".rb":         "ruby",
	".php":        "php",
	".sh":         "bash",
	".yaml":       "yaml",
	".yml":        "yaml",
	".xml":        "xml",
	".sql":        "sql",
	".txt":        "text",
	".toml":       "toml",
	".dockerfile": "dockerfile",
}

// GetLanguageFromExtension 根据文件扩展名返回对应的语言标识
func GetLanguageFromExtension(ext string) string {
	return langMap[strings.ToLower(ext)]
}

// LanguageOf 根据文件路径返回语言标识，无法识别时返回空字符串
func LanguageOf(path string) string {
	return GetLanguageFromExtension(filepath.Ext(path))
}

// IsMarkupFile 判断是否为 HTML 文档
func IsMarkupFile(path string) bool {
	return LanguageOf(path) == LangHTML
}

// IsStylesheetFile 判断是否为样式表
func IsStylesheetFile(path string) bool {
	switch LanguageOf(path) {
	case LangCSS, LangSCSS, LangLess:
		return true
	}
	return false
}

// IsScriptFile 判断是否为可在浏览器中执行的脚本
func IsScriptFile(path string) bool {
	switch LanguageOf(path) {
	case LangJavaScript, LangJSX:
		return true
	}
	return false
}

// IsMarkdownFile 判断是否为 Markdown 文档
func IsMarkdownFile(path string) bool {
	return LanguageOf(path) == LangMarkdown
}

// IsScriptLanguage 判断语言是否按脚本语言进行语法检查
func IsScriptLanguage(lang string) bool {
	return lang == LangJavaScript || lang == LangJSX
}

// IsTypeScriptLanguage 判断是否为带类型标注的脚本语言
func IsTypeScriptLanguage(lang string) bool {
	return lang == LangTypeScript || lang == LangTSX
}

// IsTextFile 判断是否为文本文件
func IsTextFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))

	// 如果没有扩展名，默认为文本文件
	if ext == "" {
		return true
	}
	if _, ok := langMap[ext]; ok {
		return true
	}

	switch ext {
	case ".gitignore", ".gitattributes", ".editorconfig", ".babelrc", ".eslintrc",
		".prettierrc", ".npmignore", ".env", ".svg", ".ini", ".cfg", ".vue":
		return true
	}
	return false
}
