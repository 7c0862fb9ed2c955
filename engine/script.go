package engine

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// scriptChecker 使用 tree-sitter 做纯语法检查，不可并发使用
type scriptChecker struct {
	parser *sitter.Parser
}

func newScriptChecker() *scriptChecker {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	return &scriptChecker{parser: parser}
}

// check 只报告第一处语法错误；解析被取消时返回错误而不是校验结果
func (c *scriptChecker) check(ctx context.Context, text string) (ValidationResult, error) {
	src := []byte(text)
	tree, err := c.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("engine: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return Valid(), nil
	}

	d := Diagnostic{Line: 1, Message: "Syntax error", Severity: SeverityError}
	if bad := firstError(root); bad != nil {
		d.Line = int(bad.StartPoint().Row) + 1
		if bad.IsMissing() {
			d.Message = "Missing " + bad.Type()
		} else {
			d.Message = "Unexpected token"
			if tok := bad.Content(src); tok != "" && len(tok) <= 20 && !strings.ContainsAny(tok, "\r\n") {
				d.Message += " " + tok
			}
		}
	}
	return newResult([]Diagnostic{d}), nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func (c *scriptChecker) close() {
	c.parser.Close()
}
