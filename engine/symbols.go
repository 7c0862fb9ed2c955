package engine

import (
	"regexp"
)

const ident = `[A-Za-z_$][\w$]*`

var (
	functionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bfunction\s*\*?\s*(` + ident + `)\s*\(`),
		regexp.MustCompile(`\b(?:const|let|var)\s+(` + ident + `)\s*=\s*(?:async\s+)?(?:function\b|\([^()]*\)\s*=>|` + ident + `\s*=>)`),
		regexp.MustCompile(`(?m)^\s*(?:static\s+)?(?:async\s+)?(` + ident + `)\s*\([^()]*\)\s*\{`),
	}
	variablePattern = regexp.MustCompile(`\b(?:const|let|var)\s+(` + ident + `)`)
	classPattern    = regexp.MustCompile(`\bclass\s+(` + ident + `)`)
	importPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`\bimport\s+(?:[\w$*{}\s,]+\s+from\s+)?['"]([^'"\n]+)['"]`),
		regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		regexp.MustCompile(`\bexport\s+(?:\*|\{[^}]*\})\s+from\s+['"]([^'"\n]+)['"]`),
	}
)

// 形如 name(...) { 的行中不是方法名的关键字
var notMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "with": true,
}

// ExtractSymbols 用独立的正则扫描提取函数、变量、类和导入的模块，结果去重并保持出现顺序
func ExtractSymbols(text string) Symbols {
	s := EmptySymbols()

	for _, re := range functionPatterns {
		for _, name := range captures(re, text) {
			if !notMethods[name] {
				s.Functions = appendUnique(s.Functions, name)
			}
		}
	}
	for _, name := range captures(variablePattern, text) {
		s.Variables = appendUnique(s.Variables, name)
	}
	for _, name := range captures(classPattern, text) {
		s.Classes = appendUnique(s.Classes, name)
	}
	for _, re := range importPatterns {
		for _, mod := range captures(re, text) {
			s.Imports = appendUnique(s.Imports, mod)
		}
	}
	return s
}

func captures(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 && m[1] != "" {
			out = append(out, m[1])
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
