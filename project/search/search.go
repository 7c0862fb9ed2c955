// Package search 在项目树中按名称和内容查找节点
package search

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/sjzsdu/workbench/helper/coroutine"
	"github.com/sjzsdu/workbench/project"
)

// SearchOptions 定义搜索选项
type SearchOptions struct {
	// 名称包含（子串匹配）
	NameContains string
	// 名称正则（优先于 NameContains）
	NameRegex string
	// 内容包含（子串匹配）
	ContentContains string
	// 内容正则（优先于 ContentContains）
	ContentRegex string
	// 仅对文件生效的扩展名过滤，如 []string{"js","css"}；为空或包含 "*" 表示不过滤
	Extensions []string
	// 是否包含隐藏文件/目录（以 . 开头）
	IncludeHidden bool
	// 是否在结果中包含目录
	IncludeDirs bool
	// 是否在结果中包含文件
	IncludeFiles bool
	// 限制搜索深度（相对起点），0 表示不限制；起点的直接子节点深度为 1
	MaxDepth int
	// 并发 worker 数，<=0 使用默认
	MaxWorkers int
	// 名称与内容的大小写不敏感匹配（对子串与正则均生效）
	CaseInsensitive bool
	// MatchAny 为 true 时，名称或内容任一匹配即算命中；为 false 时采用“与”逻辑
	MatchAny bool
}

// DefaultSearchOptions 返回默认搜索选项
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		IncludeFiles:    true,
		CaseInsensitive: true,
	}
}

// Search 在 start 子树下并发搜索，返回匹配的节点（按 Path 排序）
func Search(ctx context.Context, tree *project.Tree, start string, opts *SearchOptions) ([]*project.Node, error) {
	if tree == nil {
		return nil, nil
	}
	if opts == nil {
		opts = DefaultSearchOptions()
	}

	nameRe, err := compile(opts.NameRegex, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}
	contentRe, err := compile(opts.ContentRegex, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	candidates, err := collect(tree, start, opts)
	if err != nil {
		return nil, err
	}

	applyName := opts.NameRegex != "" || opts.NameContains != ""
	applyContent := opts.ContentRegex != "" || opts.ContentContains != ""

	results := coroutine.Map(ctx, opts.MaxWorkers, candidates, func(n *project.Node) (bool, error) {
		nameOK := matchNodeName(n, opts, nameRe)
		contentOK := matchNodeContent(n, opts, contentRe)

		if opts.MatchAny {
			if !applyName && !applyContent {
				return nameOK, nil
			}
			return (applyName && nameOK) || (applyContent && contentOK), nil
		}
		// 与逻辑：仅对启用的条件进行判断
		return (!applyName || nameOK) && (!applyContent || contentOK), nil
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]*project.Node, 0)
	for _, r := range results {
		if r.Err == nil && r.Value {
			matched = append(matched, candidates[r.Index])
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Path < matched[j].Path })
	return matched, nil
}

// collect 按深度、隐藏项和类型过滤出候选节点
func collect(tree *project.Tree, start string, opts *SearchOptions) ([]*project.Node, error) {
	p, err := project.NormalizePath(start)
	if err != nil {
		return nil, err
	}
	base := 0
	if p != "" {
		base = strings.Count(p, "/") + 1
	}

	var out []*project.Node
	err = tree.WalkFrom(p, project.VisitorFunc(func(n *project.Node, depth int) error {
		rel := depth - base + 1
		if opts.MaxDepth > 0 && rel > opts.MaxDepth {
			if n.IsDir() {
				return project.SkipFolder
			}
			return nil
		}
		if !opts.IncludeHidden && strings.HasPrefix(n.Name, ".") {
			if n.IsDir() {
				return project.SkipFolder
			}
			return nil
		}
		if n.IsDir() {
			if opts.IncludeDirs {
				out = append(out, n)
			}
			return nil
		}
		if opts.IncludeFiles && allowByExt(n.Name, opts.Extensions) {
			out = append(out, n)
		}
		return nil
	}))
	return out, err
}

func compile(pattern string, insensitive bool) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	if insensitive && !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func matchNodeName(n *project.Node, opts *SearchOptions, re *regexp.Regexp) bool {
	if re != nil {
		return re.MatchString(n.Name)
	}
	if opts.NameContains == "" {
		return true
	}
	if opts.CaseInsensitive {
		return strings.Contains(strings.ToLower(n.Name), strings.ToLower(opts.NameContains))
	}
	return strings.Contains(n.Name, opts.NameContains)
}

func matchNodeContent(n *project.Node, opts *SearchOptions, re *regexp.Regexp) bool {
	// 启用内容过滤时目录不匹配
	if n.IsDir() {
		return opts.ContentRegex == "" && opts.ContentContains == ""
	}
	if re != nil {
		return re.MatchString(n.Content)
	}
	if opts.ContentContains == "" {
		return true
	}
	if opts.CaseInsensitive {
		return strings.Contains(strings.ToLower(n.Content), strings.ToLower(opts.ContentContains))
	}
	return strings.Contains(n.Content, opts.ContentContains)
}

func allowByExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, e := range exts {
		if e == "*" || e == "" {
			return true
		}
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	ext := name[i+1:]
	for _, e := range exts {
		if strings.EqualFold(ext, strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}
