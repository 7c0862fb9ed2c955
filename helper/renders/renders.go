// Package renders 把文本渲染成终端输出
package renders

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/sjzsdu/workbench/helper"
)

// Renderer 流式渲染接口
type Renderer interface {
	WriteStream(content string) error
	Done()
}

// DefaultTheme 代码高亮的默认主题
const DefaultTheme = "monokai"

// lexerNames 语言标识到 chroma 词法分析器名称的映射，未列出的直接使用语言标识
var lexerNames = map[string]string{
	helper.LangJSX:  "react",
	helper.LangTSX:  "react",
	helper.LangSCSS: "scss",
	"text":          "plaintext",
}

// LexerName 返回语言对应的 chroma 词法分析器名称
func LexerName(language string) string {
	if name, ok := lexerNames[language]; ok {
		return name
	}
	if language == "" {
		return "plaintext"
	}
	return language
}

// HighlightCode 高亮代码并写入 w，theme 为空时使用默认主题
func HighlightCode(w io.Writer, code, language, theme string) error {
	if theme == "" {
		theme = DefaultTheme
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return quick.Highlight(w, code, LexerName(language), "terminal256", theme)
}
