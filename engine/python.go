package engine

import "strings"

const pythonIndentUnit = 4

// 可以出现在与上一个代码块同级位置的关键字
var pythonContinuations = []string{"else", "elif", "except", "finally", "case", "default"}

// checkPython 缩进检查：比期望缩进浅、不是续接关键字且不是缩进单位整数倍的行是错误
func checkPython(text string) ValidationResult {
	var diags []Diagnostic
	expected := 0
	depth := 0 // 括号嵌套，括号内的续行不检查

	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		code := stripPythonComment(trimmed)

		if depth > 0 {
			depth = bracketDepth(code, depth)
			continue
		}

		indent := indentWidth(line)
		if indent < expected && indent%pythonIndentUnit != 0 && !isPythonContinuation(code) {
			diags = append(diags, Diagnostic{Line: i + 1, Message: "Unexpected indentation", Severity: SeverityError})
		}

		expected = indent
		if strings.HasSuffix(code, ":") {
			expected = indent + pythonIndentUnit
		}
		depth = bracketDepth(code, 0)
	}
	return newResult(diags)
}

func isPythonContinuation(code string) bool {
	for _, kw := range pythonContinuations {
		if code == kw+":" || strings.HasPrefix(code, kw+" ") || strings.HasPrefix(code, kw+":") {
			return true
		}
	}
	return false
}

func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += pythonIndentUnit
		default:
			return w
		}
	}
	return w
}

// stripPythonComment 去掉行尾注释，忽略字符串中的 #
func stripPythonComment(code string) string {
	var quote rune
	for i, r := range code {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			return strings.TrimSpace(code[:i])
		}
	}
	return code
}

func bracketDepth(code string, depth int) int {
	var quote rune
	for _, r := range code {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}
