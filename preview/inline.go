package preview

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
)

// assets 树中的样式表和脚本，按深度优先顺序
type assets struct {
	styles       []string
	scripts      []string
	styleByBase  map[string]string // 同名文件取第一个
	scriptByBase map[string]string
}

func collectAssets(tree *project.Tree) assets {
	a := assets{styleByBase: map[string]string{}, scriptByBase: map[string]string{}}
	for _, n := range tree.ListAllFiles() {
		switch {
		case helper.IsStylesheetFile(n.Path):
			a.styles = append(a.styles, n.Path)
			if _, ok := a.styleByBase[n.Name]; !ok {
				a.styleByBase[n.Name] = n.Path
			}
		case helper.IsScriptFile(n.Path):
			a.scripts = append(a.scripts, n.Path)
			if _, ok := a.scriptByBase[n.Name]; !ok {
				a.scriptByBase[n.Name] = n.Path
			}
		}
	}
	return a
}

// inline 替换宿主中的样式和脚本引用，再追加没有被引用的文件
//
// 同时被引用和追加的文件会出现两次，这是接受的代价。
func inline(tree *project.Tree, h host, o *options) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("preview: rewrite %s: %v", h.path, r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h.text))
	if err != nil {
		return Result{}, fmt.Errorf("preview: parse %s: %w", h.path, err)
	}

	a := collectAssets(tree)
	consumed := map[string]bool{}
	res = Result{HostPath: h.path, Synthesized: h.synthesized}
	consume := func(p string) {
		if !consumed[p] {
			consumed[p] = true
			res.Inlined = append(res.Inlined, p)
		}
	}

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if !isStylesheetLink(s) {
			return
		}
		href, _ := s.Attr("href")
		p, ok := a.styleByBase[baseName(href)]
		if !ok {
			return
		}
		s.ReplaceWithHtml(styleTag(p, o.content(p)))
		consume(p)
	})

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		name := baseName(src)
		p, ok := a.scriptByBase[name]
		if h.script != "" && name == helper.BaseName(h.script) {
			p, ok = h.script, true
		}
		if !ok {
			return
		}
		typ, _ := s.Attr("type")
		s.ReplaceWithHtml(scriptTag(p, typ, o.content(p)))
		consume(p)
	})

	head := doc.Find("head").First()
	for _, p := range a.styles {
		if consumed[p] {
			continue
		}
		head.AppendHtml(styleTag(p, o.content(p)))
		res.Appended = append(res.Appended, p)
	}

	// 合成外壳只包裹选中的脚本
	if h.script == "" {
		body := doc.Find("body").First()
		for _, p := range a.scripts {
			if consumed[p] {
				continue
			}
			body.AppendHtml(scriptTag(p, "", o.content(p)))
			res.Appended = append(res.Appended, p)
		}
	}

	out, err := doc.Html()
	if err != nil {
		return Result{}, fmt.Errorf("preview: render %s: %w", h.path, err)
	}
	res.HTML = out
	return res, nil
}

func isStylesheetLink(s *goquery.Selection) bool {
	rel, _ := s.Attr("rel")
	for _, f := range strings.Fields(rel) {
		if strings.EqualFold(f, "stylesheet") {
			return true
		}
	}
	return false
}

func styleTag(path, content string) string {
	return fmt.Sprintf("<style data-source=\"%s\">\n%s\n</style>", html.EscapeString(path), content)
}

func scriptTag(path, typ, content string) string {
	attrs := fmt.Sprintf(" data-source=\"%s\"", html.EscapeString(path))
	if typ != "" {
		attrs = fmt.Sprintf(" type=\"%s\"", html.EscapeString(typ)) + attrs
	}
	return fmt.Sprintf("<script%s>\n%s\n</script>", attrs, content)
}
