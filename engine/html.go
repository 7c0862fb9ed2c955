package engine

import (
	"regexp"
	"strings"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var htmlTag = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)((?:[^>"']|"[^"]*"|'[^']*')*?)(/?)>`)

// checkHTML 流式扫描标签并维护打开标签栈
//
// 所有问题都标在第 1 行：闭合标签与栈顶不匹配是错误，文档结束时仍打开的标签是警告。
func checkHTML(text string) ValidationResult {
	text = stripHTMLComments(text)

	var diags []Diagnostic
	var stack []string
	rawText := "" // script 或 style 内部不解析标签

	for _, m := range htmlTag.FindAllStringSubmatch(text, -1) {
		closing := m[1] == "/"
		name := strings.ToLower(m[2])
		selfClosing := m[4] == "/"

		if rawText != "" {
			if closing && name == rawText {
				rawText = ""
				stack = stack[:len(stack)-1]
			}
			continue
		}

		switch {
		case closing:
			if voidElements[name] {
				continue
			}
			if len(stack) > 0 && stack[len(stack)-1] == name {
				stack = stack[:len(stack)-1]
				continue
			}
			diags = append(diags, Diagnostic{Line: 1, Message: "Unexpected closing tag </" + name + ">", Severity: SeverityError})
			// 栈中更深处有同名标签时弹出到它为止
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == name {
					stack = stack[:i]
					break
				}
			}
		case voidElements[name] || selfClosing:
		default:
			stack = append(stack, name)
			if name == "script" || name == "style" {
				rawText = name
			}
		}
	}

	for _, name := range stack {
		diags = append(diags, Diagnostic{Line: 1, Message: "Unclosed tag <" + name + ">", Severity: SeverityWarning})
	}
	return newResult(diags)
}

func stripHTMLComments(text string) string {
	for {
		start := strings.Index(text, "<!--")
		if start < 0 {
			return text
		}
		end := strings.Index(text[start+4:], "-->")
		if end < 0 {
			return text[:start]
		}
		text = text[:start] + text[start+4+end+3:]
	}
}
