package engine

import (
	"strings"

	"github.com/sjzsdu/workbench/helper"
)

// Format 只做空白规范化，不改变语义，对同一输入重复调用结果不变
//
// 所有语言：去掉行尾空白，连续空行合并为一行，文件以单个换行结尾。
// 脚本和样式表额外规范逗号后和花括号两侧的空格，字符串、注释和正则字面量保持原样。
// 跨行字符串内部的行、Markdown 围栏代码块不做改动，Markdown 行尾的两个空格表示换行，保留。
func Format(text, language string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var raw map[int]bool
	switch language {
	case helper.LangJavaScript, helper.LangJSX, helper.LangTypeScript, helper.LangTSX:
		text = spacePunctuation(text, true)
		raw = codeLiteralLines(text, true)
	case helper.LangCSS, helper.LangSCSS, helper.LangLess:
		text = spacePunctuation(text, false)
		raw = codeLiteralLines(text, false)
	case helper.LangPython:
		raw = pythonLiteralLines(text)
	}
	lines := splitLines(text)
	markdown := language == helper.LangMarkdown
	if markdown {
		raw = fencedLines(lines)
	}
	return normalizeLines(lines, raw, markdown)
}

// normalizeLines 去掉行尾空白并合并连续空行，raw 中的行原样保留
func normalizeLines(lines []string, raw map[int]bool, hardBreaks bool) string {
	out := make([]string, 0, len(lines))
	kept := make([]bool, 0, len(lines))
	blank := false
	for i, line := range lines {
		if raw[i] {
			out = append(out, line)
			kept = append(kept, true)
			blank = false
			continue
		}
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
			if hardBreaks && strings.HasSuffix(line, "  ") {
				trimmed += "  "
			}
		}
		out = append(out, trimmed)
		kept = append(kept, false)
	}
	for n := len(out); n > 0 && out[n-1] == "" && !kept[n-1]; n = len(out) {
		out, kept = out[:n-1], kept[:n-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// 字面量种类
type span int

const (
	spanNone span = iota
	spanComment
	spanString
	spanRegex
)

// literalAt 判断 src[i] 处是否开始注释、字符串或正则字面量，返回种类和结束位置
func literalAt(src []rune, i int, script bool, last rune) (span, int) {
	r := src[i]
	if r == '/' && i+1 < len(src) {
		if src[i+1] == '*' {
			end := indexFrom(src, i+2, "*/")
			if end < 0 {
				return spanComment, len(src)
			}
			return spanComment, end + 2
		}
		if script && src[i+1] == '/' {
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			return spanComment, j
		}
	}
	if r == '"' || r == '\'' || (script && r == '`') {
		return spanString, skipQuoted(src, i, r)
	}
	if script && r == '/' && regexAllowed(last) {
		return spanRegex, skipRegex(src, i)
	}
	return spanNone, i
}

// afterLiteral 返回字面量之后用于判断正则的前一个字符
func afterLiteral(kind span, r, last rune) rune {
	switch kind {
	case spanString:
		return r
	case spanRegex:
		return '/'
	}
	return last
}

// spacePunctuation 在代码部分执行：逗号后补空格、{ 前补空格、} 后紧跟标识符时补空格
func spacePunctuation(text string, script bool) string {
	src := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + len(text)/16)

	var last rune // 最近输出的非空白代码字符，用于判断正则字面量
	for i := 0; i < len(src); i++ {
		r := src[i]
		if kind, end := literalAt(src, i, script, last); kind != spanNone {
			b.WriteString(string(src[i:end]))
			i = end - 1
			last = afterLiteral(kind, r, last)
			continue
		}

		switch r {
		case ',':
			b.WriteRune(r)
			if i+1 < len(src) && !isSpace(src[i+1]) {
				b.WriteRune(' ')
			}
		case '{':
			if i > 0 && (isWord(src[i-1]) || src[i-1] == ')') {
				b.WriteRune(' ')
			}
			b.WriteRune(r)
		case '}':
			b.WriteRune(r)
			if i+1 < len(src) && isWord(src[i+1]) {
				b.WriteRune(' ')
			}
		default:
			b.WriteRune(r)
		}
		if !isSpace(r) {
			last = r
		}
	}
	return b.String()
}

// codeLiteralLines 返回行尾换行落在字符串字面量内的行号
func codeLiteralLines(text string, script bool) map[int]bool {
	src := []rune(text)
	raw := map[int]bool{}
	line := 0
	var last rune
	for i := 0; i < len(src); i++ {
		r := src[i]
		if kind, end := literalAt(src, i, script, last); kind != spanNone {
			line = markLines(raw, src[i:end], line, kind == spanString)
			i = end - 1
			last = afterLiteral(kind, r, last)
			continue
		}
		if r == '\n' {
			line++
		}
		if !isSpace(r) {
			last = r
		}
	}
	return raw
}

// pythonLiteralLines 返回行尾换行落在字符串内的行号，三引号字符串可以跨行
func pythonLiteralLines(text string) map[int]bool {
	src := []rune(text)
	raw := map[int]bool{}
	line := 0
	for i := 0; i < len(src); i++ {
		r := src[i]
		end, literal := i, false
		switch r {
		case '#':
			for end < len(src) && src[end] != '\n' {
				end++
			}
		case '"', '\'':
			end, literal = skipPythonString(src, i, r), true
		default:
			if r == '\n' {
				line++
			}
			continue
		}
		line = markLines(raw, src[i:end], line, literal)
		i = end - 1
	}
	return raw
}

func skipPythonString(src []rune, start int, quote rune) int {
	if start+2 >= len(src) || src[start+1] != quote || src[start+2] != quote {
		return skipQuoted(src, start, quote)
	}
	for i := start + 3; i < len(src); i++ {
		switch {
		case src[i] == '\\':
			i++
		case src[i] == quote && i+2 < len(src) && src[i+1] == quote && src[i+2] == quote:
			return i + 3
		}
	}
	return len(src)
}

// markLines 统计 seg 中的换行，mark 时把这些行记入 raw，返回新的行号
func markLines(raw map[int]bool, seg []rune, line int, mark bool) int {
	for _, c := range seg {
		if c == '\n' {
			if mark {
				raw[line] = true
			}
			line++
		}
	}
	return line
}

// fencedLines 返回 Markdown 围栏代码块的行号，包括围栏本身，未闭合的围栏延续到文末
func fencedLines(lines []string) map[int]bool {
	raw := map[int]bool{}
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if fence == "" {
			if len(line)-len(trimmed) <= 3 {
				if fence = fenceOf(trimmed); fence != "" {
					raw[i] = true
				}
			}
			continue
		}
		raw[i] = true
		if strings.HasPrefix(trimmed, fence) && strings.TrimSpace(strings.TrimLeft(trimmed, fence[:1])) == "" {
			fence = ""
		}
	}
	return raw
}

// fenceOf 返回行首的 ``` 或 ~~~ 围栏，不是围栏时返回空串
func fenceOf(line string) string {
	for _, c := range []string{"`", "~"} {
		if n := len(line) - len(strings.TrimLeft(line, c)); n >= 3 {
			return line[:n]
		}
	}
	return ""
}

func indexFrom(src []rune, from int, pattern string) int {
	p := []rune(pattern)
	for i := from; i+len(p) <= len(src); i++ {
		if string(src[i:i+len(p)]) == pattern {
			return i
		}
	}
	return -1
}

// skipQuoted 返回引号字面量之后的位置，未闭合时到行尾（模板字符串到文末）
func skipQuoted(src []rune, start int, quote rune) int {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			if quote != '`' {
				return i
			}
		}
	}
	return len(src)
}

func skipRegex(src []rune, start int) int {
	inClass := false
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return i + 1
			}
		case '\n':
			return i
		}
	}
	return len(src)
}

// regexAllowed 判断 / 出现在 prev 之后时是否开始一个正则字面量
func regexAllowed(prev rune) bool {
	if prev == 0 {
		return true
	}
	return strings.ContainsRune("(,=:[!&|?{};+-*%<>~^", prev)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isWord(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 127
}
