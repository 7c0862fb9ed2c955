package preview

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankLines = regexp.MustCompile("\n{3,}")
	codeLang   = regexp.MustCompile(`language-(\w+)`)
)

// Text 把合成的文档转换为 Markdown，供终端显示
//
// 脚本和样式被忽略，只保留可见内容。
func Text(document string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("preview: parse document: %w", err)
	}
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	body.Each(func(_ int, s *goquery.Selection) {
		writeNode(&b, s)
	})
	return strings.TrimSpace(blankLines.ReplaceAllString(b.String(), "\n\n")), nil
}

func writeNode(b *strings.Builder, s *goquery.Selection) {
	name := goquery.NodeName(s)
	switch name {
	case "#text":
		if t := strings.TrimSpace(s.Text()); t != "" {
			b.WriteString(t + " ")
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString(strings.Repeat("#", int(name[1]-'0')) + " " + strings.TrimSpace(s.Text()) + "\n\n")
	case "p":
		var p strings.Builder
		writeChildren(&p, s)
		if t := strings.TrimSpace(p.String()); t != "" {
			b.WriteString(t + "\n\n")
		}
	case "br":
		b.WriteString("\n")
	case "hr":
		b.WriteString("\n---\n\n")
	case "ul", "ol":
		writeList(b, s, "", name == "ol")
		b.WriteString("\n")
	case "pre":
		lang := ""
		if class, ok := s.Find("code").First().Attr("class"); ok {
			if m := codeLang.FindStringSubmatch(class); len(m) > 1 {
				lang = m[1]
			}
		}
		b.WriteString("```" + lang + "\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n")
	case "code":
		b.WriteString("`" + s.Text() + "` ")
	case "a":
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		switch {
		case href != "" && text != "":
			b.WriteString(fmt.Sprintf("[%s](%s) ", text, href))
		case text != "":
			b.WriteString(text + " ")
		}
	case "img":
		alt, _ := s.Attr("alt")
		if src, _ := s.Attr("src"); src != "" {
			b.WriteString(fmt.Sprintf("![%s](%s)\n\n", strings.TrimSpace(alt), src))
		}
	case "table":
		writeTable(b, s)
		b.WriteString("\n")
	case "blockquote":
		var q strings.Builder
		writeChildren(&q, s)
		for _, line := range strings.Split(q.String(), "\n") {
			if strings.TrimSpace(line) != "" {
				b.WriteString("> " + strings.TrimSpace(line) + "\n")
			}
		}
		b.WriteString("\n")
	case "div", "section", "article", "main", "header", "footer":
		writeChildren(b, s)
		b.WriteString("\n")
	default:
		writeChildren(b, s)
	}
}

func writeChildren(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		writeNode(b, c)
	})
}

// writeList 输出列表，嵌套列表缩进两个空格
func writeList(b *strings.Builder, s *goquery.Selection, indent string, ordered bool) {
	index := 1
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		var item strings.Builder
		li.Contents().Each(func(_ int, c *goquery.Selection) {
			if n := goquery.NodeName(c); n != "ul" && n != "ol" {
				writeNode(&item, c)
			}
		})
		if text := strings.TrimSpace(item.String()); text != "" {
			if ordered {
				b.WriteString(fmt.Sprintf("%s%d. %s\n", indent, index, text))
				index++
			} else {
				b.WriteString(indent + "- " + text + "\n")
			}
		}
		li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
			writeList(b, sub, indent+"  ", goquery.NodeName(sub) == "ol")
		})
	})
}

func writeTable(b *strings.Builder, table *goquery.Selection) {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, c *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(c.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	line := func(cells []string) {
		for len(cells) < width {
			cells = append(cells, "")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	line(rows[0])
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	line(sep)
	for _, r := range rows[1:] {
		line(r)
	}
}
