package helper

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sjzsdu/workbench/lang"
)

// Prompter 在终端上逐行提问，多次提问共用同一个输入缓冲
type Prompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompter 创建读取 in、提示写到 out 的 Prompter
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Split(scanAnyLine)
	return &Prompter{out: out, scanner: scanner}
}

// StdPrompter 使用标准输入输出
func StdPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// Line 输出提示并读取一行，去掉首尾空白；输入结束时返回 io.EOF
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// YesNo 询问是否继续，直接回车时返回 defaultYes，无法识别的回答会重新询问
func (p *Prompter) YesNo(prompt string, defaultYes bool) (bool, error) {
	for {
		ans, err := p.Line(prompt)
		if err != nil {
			return defaultYes, err
		}
		switch normalizeYN(ans) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		prompt = lang.T("Please enter y or n: ")
	}
}

// scanAnyLine 与 bufio.ScanLines 相同，另外把单独的 \r 也当作行尾
func scanAnyLine(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// \r\n 或单独的 \r
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// normalizeYN 统一大小写、全角字符和常见的中文回答
func normalizeYN(s string) string {
	s = strings.ToLower(strings.Map(func(r rune) rune {
		if r >= 0xFF01 && r <= 0xFF5E {
			return r - 0xFEE0
		}
		return r
	}, strings.TrimSpace(s)))
	switch s {
	case "是", "好", "确定":
		return "yes"
	case "否", "不":
		return "no"
	}
	return s
}
