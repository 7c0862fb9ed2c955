package engine

import "strings"

// checkCSS 检查花括号是否平衡，并提示缺少分号的声明
func checkCSS(text string) ValidationResult {
	code := stripCSSComments(text)

	var diags []Diagnostic
	depth := 0
	balanced := true
	for _, r := range code {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				balanced = false
				depth = 0
			}
		}
	}
	if !balanced || depth != 0 {
		diags = append(diags, Diagnostic{Line: 1, Message: "Mismatched braces", Severity: SeverityError})
	}

	lines := splitLines(code)
	for i, line := range lines {
		cur := strings.TrimSpace(line)
		if !isDeclaration(cur) || strings.HasSuffix(cur, ";") {
			continue
		}
		next := nextNonEmpty(lines, i+1)
		if isDeclaration(next) {
			diags = append(diags, Diagnostic{Line: i + 1, Message: "Missing semicolon", Severity: SeverityWarning})
		}
	}
	return newResult(diags)
}

// isDeclaration 判断一行是否像 "prop: value" 形式的声明
func isDeclaration(line string) bool {
	if line == "" || strings.ContainsAny(line, "{}") || strings.HasSuffix(line, ",") {
		return false
	}
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return false
	}
	prop := strings.TrimSpace(line[:idx])
	for _, r := range prop {
		if !(r == '-' || r == '_' || r == '$' || r == '@' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return prop != ""
}

func nextNonEmpty(lines []string, from int) string {
	for i := from; i < len(lines); i++ {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

// stripCSSComments 去掉 /* */ 注释，保留换行以维持行号
func stripCSSComments(text string) string {
	var b strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			b.WriteString(strings.Repeat("\n", strings.Count(text[start:], "\n")))
			return b.String()
		}
		comment := text[start : start+2+end+2]
		b.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
		text = text[start+2+end+2:]
	}
}
