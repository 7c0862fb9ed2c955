package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project/cache"
	"github.com/sjzsdu/workbench/share"
)

// ErrUnknownKind 不支持的任务类型
var ErrUnknownKind = errors.New("engine: unknown task kind")

// Kind 任务类型
type Kind int

const (
	KindValidate Kind = iota
	KindExtractSymbols
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindValidate:
		return "validate"
	case KindExtractSymbols:
		return "symbols"
	case KindFormat:
		return "format"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kinds 返回所有任务类型
func Kinds() []Kind {
	return []Kind{KindValidate, KindExtractSymbols, KindFormat}
}

// Request 是交给 worker 的任务负载，按值传递
type Request struct {
	Kind     Kind   `json:"kind"`
	Path     string `json:"path"`
	Language string `json:"language,omitempty"` // 为空时根据 Path 推断
	Content  string `json:"content"`
}

// Lang 返回请求的语言
func (r Request) Lang() string {
	if r.Language != "" {
		return strings.ToLower(r.Language)
	}
	return helper.LanguageOf(r.Path)
}

// Response 是任务结果，只有与 Kind 对应的字段有意义
type Response struct {
	Kind       Kind             `json:"kind"`
	Validation ValidationResult `json:"validation"`
	Formatted  string           `json:"formatted,omitempty"`
	Symbols    Symbols          `json:"symbols"`
}

// Handler 处理单个请求
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

type resultKey struct {
	length   int
	language string
	path     string
}

// Processor 是一个 worker 私有的处理器，不可并发使用
//
// 校验结果按 (内容长度, 语言, 路径) 缓存，长度相同的不同内容会命中旧结果，这是有意的近似。
type Processor struct {
	script  *scriptChecker
	results *cache.LRU[resultKey, ValidationResult]
	before  func(Request)
}

// NewProcessor 创建处理器
func NewProcessor() *Processor {
	return &Processor{
		script:  newScriptChecker(),
		results: cache.NewLRU[resultKey, ValidationResult](share.RESULT_CACHE_SIZE),
	}
}

// Handle 执行请求，处理过程中的 panic 会转换为错误
func (p *Processor) Handle(ctx context.Context, req Request) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Kind: req.Kind}
			err = fmt.Errorf("engine: %s %q panicked: %v", req.Kind, req.Path, r)
		}
	}()
	if p.before != nil {
		p.before(req)
	}

	resp.Kind = req.Kind
	switch req.Kind {
	case KindValidate:
		if resp.Validation, err = p.Validate(ctx, req.Path, req.Lang(), req.Content); err != nil {
			return resp, err
		}
	case KindFormat:
		resp.Formatted = Format(req.Content, req.Lang())
	case KindExtractSymbols:
		resp.Symbols = Extract(req.Content, req.Lang())
	default:
		return resp, fmt.Errorf("%w: %d", ErrUnknownKind, int(req.Kind))
	}
	return resp, nil
}

// Validate 校验文本，命中缓存时直接返回；只有真正完成的校验才写入缓存
func (p *Processor) Validate(ctx context.Context, path, language, text string) (ValidationResult, error) {
	key := resultKey{length: len(text), language: language, path: path}
	if r, ok := p.results.Get(key); ok {
		return r, nil
	}
	r, err := validate(ctx, p.script, text, language)
	if err != nil {
		return ValidationResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return ValidationResult{}, err
	}
	p.results.Set(key, r)
	return r, nil
}

// CacheStats 返回结果缓存的统计
func (p *Processor) CacheStats() cache.Stats {
	return p.results.Stats()
}

// ClearCache 清空结果缓存
func (p *Processor) ClearCache() {
	p.results.Clear()
}

// Close 释放解析器
func (p *Processor) Close() {
	p.script.close()
}

// Extract 只对脚本语言提取符号，其它语言返回空结果
func Extract(text, language string) Symbols {
	if !helper.IsScriptLanguage(language) && !helper.IsTypeScriptLanguage(language) {
		return EmptySymbols()
	}
	return ExtractSymbols(text)
}

// Fallback 返回降级结果：校验总是通过，格式化原样返回，符号为空
func Fallback(req Request) Response {
	return Response{
		Kind:       req.Kind,
		Validation: Valid(),
		Formatted:  req.Content,
		Symbols:    EmptySymbols(),
	}
}
