package editor

import (
	"fmt"
	"regexp"
	"unicode"
)

// SearchOptions 查找选项
type SearchOptions struct {
	CaseSensitive bool
	WholeWord     bool
	Regexp        bool
}

func (o SearchOptions) pattern(query string) (*regexp.Regexp, error) {
	expr := query
	if !o.Regexp {
		expr = regexp.QuoteMeta(query)
	}
	if !o.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("editor: invalid search pattern: %w", err)
	}
	return re, nil
}

// Find 逐行查找匹配，返回所有范围
func (b *Buffer) Find(query string, opts SearchOptions) ([]Range, error) {
	if query == "" {
		return nil, nil
	}
	re, err := opts.pattern(query)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Range
	for i, line := range b.lines {
		for _, m := range re.FindAllStringIndex(line, -1) {
			if m[0] == m[1] {
				continue
			}
			if opts.WholeWord && !wholeWord(line, m[0], m[1]) {
				continue
			}
			out = append(out, Range{
				Start: Position{Line: i, Column: m[0]},
				End:   Position{Line: i, Column: m[1]},
			})
		}
	}
	return out, nil
}

// ReplaceAll 替换所有匹配，返回替换次数
func (b *Buffer) ReplaceAll(query, replacement string, opts SearchOptions) (int, error) {
	ranges, err := b.Find(query, opts)
	if err != nil || len(ranges) == 0 {
		return 0, err
	}
	edits := make([]TextEdit, len(ranges))
	for i, r := range ranges {
		edits[i] = TextEdit{Range: r, NewText: replacement}
	}
	if err := b.ApplyEdits(edits); err != nil {
		return 0, err
	}
	return len(ranges), nil
}

// SelectMatches 把所有匹配设为选区，没有匹配时保持原选区
func (b *Buffer) SelectMatches(query string, opts SearchOptions) (int, error) {
	ranges, err := b.Find(query, opts)
	if err != nil || len(ranges) == 0 {
		return 0, err
	}
	b.mu.Lock()
	b.selections = ranges
	b.revealed = ranges[0].Start
	b.mu.Unlock()
	return len(ranges), nil
}

func wholeWord(line string, start, end int) bool {
	before := start == 0 || !isWordByte(line[start-1])
	after := end >= len(line) || !isWordByte(line[end])
	return before && after
}

func isWordByte(c byte) bool {
	if c >= 0x80 {
		return true
	}
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// WordAt 返回位置所在的单词范围
func (b *Buffer) WordAt(p Position) Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	p = b.clampPos(p)
	line := b.lines[p.Line]
	start, end := p.Column, p.Column
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return Range{Start: Position{Line: p.Line, Column: start}, End: Position{Line: p.Line, Column: end}}
}
