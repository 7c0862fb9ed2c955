package engine

import (
	"regexp"
	"strings"
)

var (
	tsInterfaceDecl = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?interface\s+[A-Za-z_$]`)
	tsTypeDecl      = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?type\s+[A-Za-z_$][\w$]*`)
)

// checkTypeScript 行扫描：接口或类型声明行既没有 { 也没有 ; 时给出警告
func checkTypeScript(text string) ValidationResult {
	var diags []Diagnostic
	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(stripLineComment(line))
		if trimmed == "" {
			continue
		}

		switch {
		case tsInterfaceDecl.MatchString(trimmed):
			if !strings.ContainsAny(trimmed, "{;") {
				diags = append(diags, Diagnostic{Line: i + 1, Message: "Unterminated interface declaration", Severity: SeverityWarning})
			}
		case tsTypeDecl.MatchString(trimmed):
			if !strings.ContainsAny(trimmed, "{;=") {
				diags = append(diags, Diagnostic{Line: i + 1, Message: "Unterminated type declaration", Severity: SeverityWarning})
			}
		}
	}
	return newResult(diags)
}

func stripLineComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
