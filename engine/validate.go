package engine

import (
	"context"

	"github.com/sjzsdu/workbench/helper"
)

// Supported 判断语言是否有对应的校验器
func Supported(language string) bool {
	switch language {
	case helper.LangJavaScript, helper.LangJSX, helper.LangTypeScript, helper.LangTSX,
		helper.LangPython, helper.LangHTML, helper.LangCSS, helper.LangSCSS, helper.LangLess:
		return true
	}
	return false
}

// validate 按语言选择校验器，script 为空时脚本按合法处理
func validate(ctx context.Context, script *scriptChecker, text, language string) (ValidationResult, error) {
	switch language {
	case helper.LangJavaScript, helper.LangJSX:
		if script == nil {
			return Valid(), nil
		}
		return script.check(ctx, text)
	case helper.LangTypeScript, helper.LangTSX:
		return checkTypeScript(text), nil
	case helper.LangPython:
		return checkPython(text), nil
	case helper.LangHTML:
		return checkHTML(text), nil
	case helper.LangCSS, helper.LangSCSS, helper.LangLess:
		return checkCSS(text), nil
	default:
		return Valid(), nil
	}
}
