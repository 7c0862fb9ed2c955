package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sjzsdu/workbench/helper/coroutine"
	"github.com/sjzsdu/workbench/project"
)

// ErrNotIndexed 尚未建立索引
var ErrNotIndexed = errors.New("search engine not indexed")

// GrepOptions 全文搜索选项
type GrepOptions struct {
	CaseSensitive bool     // 区分大小写
	WholeWord     bool     // 全词匹配
	RegexMode     bool     // 正则表达式模式
	FileTypes     []string // 限定文件类型
	MaxResults    int      // 最大结果数
}

// SearchResult 搜索结果，行列从 1 开始，列为字节偏移
type SearchResult struct {
	FilePath    string
	LineNumber  int
	ColumnStart int
	ColumnEnd   int
	LineContent string
	Context     string // 匹配行之前的最多 3 行
}

// SearchEngine 搜索引擎接口
type SearchEngine interface {
	// 构建搜索索引
	BuildIndex(tree *project.Tree) error
	// 搜索关键词
	Search(ctx context.Context, query string, options GrepOptions) ([]SearchResult, error)
}

// DefaultSearchEngine 在某一版本的树上做全文搜索
type DefaultSearchEngine struct {
	mu      sync.RWMutex
	version uint64
	paths   []string
	content map[string]string
	indexed bool
}

// NewDefaultSearchEngine 创建一个新的默认搜索引擎
func NewDefaultSearchEngine() *DefaultSearchEngine {
	return &DefaultSearchEngine{content: make(map[string]string)}
}

// BuildIndex 记录树中所有文件的内容，树版本未变化时直接返回
func (s *DefaultSearchEngine) BuildIndex(tree *project.Tree) error {
	if tree == nil {
		return fmt.Errorf("build index: %w", project.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed && s.version == tree.Version() {
		return nil
	}

	s.paths = s.paths[:0]
	s.content = make(map[string]string)
	for _, n := range tree.ListAllFiles() {
		s.paths = append(s.paths, n.Path)
		s.content[n.Path] = n.Content
	}
	s.version = tree.Version()
	s.indexed = true
	return nil
}

// Search 实现 SearchEngine 接口，结果按路径、行、列排序
func (s *DefaultSearchEngine) Search(ctx context.Context, query string, options GrepOptions) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.indexed {
		return nil, ErrNotIndexed
	}
	re, err := pattern(query, options)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, p := range s.paths {
		if len(options.FileTypes) > 0 {
			ext := strings.TrimPrefix(filepath.Ext(p), ".")
			if !contains(options.FileTypes, ext) && !contains(options.FileTypes, "*") {
				continue
			}
		}
		files = append(files, p)
	}

	perFile := coroutine.Map(ctx, 0, files, func(p string) ([]SearchResult, error) {
		return searchInFile(p, s.content[p], re), nil
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, r := range perFile {
		results = append(results, r.Value...)
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		return a.ColumnStart < b.ColumnStart
	})

	if options.MaxResults > 0 && len(results) > options.MaxResults {
		results = results[:options.MaxResults]
	}
	return results, nil
}

func pattern(query string, options GrepOptions) (*regexp.Regexp, error) {
	expr := query
	if !options.RegexMode {
		expr = regexp.QuoteMeta(query)
		if options.WholeWord {
			expr = `\b` + expr + `\b`
		}
	}
	if !options.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("无效的搜索模式: %w", err)
	}
	return re, nil
}

// searchInFile 在单个文件中逐行搜索
func searchInFile(filePath, content string, re *regexp.Regexp) []SearchResult {
	var results []SearchResult

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	var before []string

	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		for _, match := range re.FindAllStringIndex(line, -1) {
			if match[0] == match[1] {
				continue
			}
			results = append(results, SearchResult{
				FilePath:    filePath,
				LineNumber:  lineNumber,
				ColumnStart: match[0] + 1,
				ColumnEnd:   match[1] + 1,
				LineContent: line,
				Context:     strings.Join(before, "\n"),
			})
		}

		before = append(before, line)
		if len(before) > 3 {
			before = before[1:]
		}
	}
	return results
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// group 按文件分组，保持结果顺序
func group(results []SearchResult) ([]string, map[string][]SearchResult) {
	var order []string
	groups := make(map[string][]SearchResult)
	for _, r := range results {
		if _, ok := groups[r.FilePath]; !ok {
			order = append(order, r.FilePath)
		}
		groups[r.FilePath] = append(groups[r.FilePath], r)
	}
	return order, groups
}

// FormatSearchResults 格式化搜索结果
func FormatSearchResults(results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("找到 %d 个结果:\n\n", len(results)))

	order, groups := group(results)
	for _, filePath := range order {
		fileResults := groups[filePath]
		sb.WriteString(fmt.Sprintf("文件: %s (%d 个匹配)\n", filePath, len(fileResults)))
		for _, r := range fileResults {
			sb.WriteString(fmt.Sprintf("  行 %d, 列 %d-%d: %s\n", r.LineNumber, r.ColumnStart, r.ColumnEnd, r.LineContent))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// MarkdownSearchFormatter Markdown 格式的搜索结果格式化器
type MarkdownSearchFormatter struct{}

// Format 格式化搜索结果为 Markdown，匹配部分加粗
func (m *MarkdownSearchFormatter) Format(results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("# 搜索结果\n\n")
	sb.WriteString(fmt.Sprintf("找到 **%d** 个结果\n\n", len(results)))

	order, groups := group(results)
	for _, filePath := range order {
		fileResults := groups[filePath]
		sb.WriteString(fmt.Sprintf("## %s\n\n", filePath))
		sb.WriteString(fmt.Sprintf("*%d 个匹配*\n\n", len(fileResults)))

		for _, r := range fileResults {
			line := r.LineContent
			highlighted := line[:r.ColumnStart-1] + "**" + line[r.ColumnStart-1:r.ColumnEnd-1] + "**" + line[r.ColumnEnd-1:]
			sb.WriteString(fmt.Sprintf("- 行 **%d**, 列 %d-%d: %s\n", r.LineNumber, r.ColumnStart, r.ColumnEnd, highlighted))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
