// Package engine 实现后台 worker 中运行的文件处理逻辑：
// 按语言的启发式校验、空白格式化和基于正则的符号提取
//
// 这些检查刻意保持低精度，误报和漏报都是可以接受的，但不会导致失败。
package engine

// Severity 问题级别
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic 是一条校验问题，Line 从 1 开始
type Diagnostic struct {
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult 校验结果，存在 error 级别的问题时 IsValid 为 false
type ValidationResult struct {
	IsValid bool         `json:"isValid"`
	Errors  []Diagnostic `json:"errors"`
}

// Symbols 脚本文件中的符号
type Symbols struct {
	Functions []string `json:"functions"`
	Variables []string `json:"variables"`
	Classes   []string `json:"classes"`
	Imports   []string `json:"imports"`
}

// Empty 判断是否没有任何符号
func (s Symbols) Empty() bool {
	return len(s.Functions)+len(s.Variables)+len(s.Classes)+len(s.Imports) == 0
}

// Valid 返回没有问题的校验结果
func Valid() ValidationResult {
	return ValidationResult{IsValid: true, Errors: []Diagnostic{}}
}

func newResult(diags []Diagnostic) ValidationResult {
	if diags == nil {
		diags = []Diagnostic{}
	}
	valid := true
	for _, d := range diags {
		if d.Severity == SeverityError {
			valid = false
			break
		}
	}
	return ValidationResult{IsValid: valid, Errors: diags}
}

// EmptySymbols 返回四个空桶
func EmptySymbols() Symbols {
	return Symbols{Functions: []string{}, Variables: []string{}, Classes: []string{}, Imports: []string{}}
}
