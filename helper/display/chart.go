package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var palette = []lipgloss.Color{"1", "2", "3", "4", "5", "6"}

// LineChart 把序列画成折线图，点数不足两个时返回空字符串
func LineChart(data []float64, width, height int, caption string) string {
	if len(data) < 2 {
		return ""
	}
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 10
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Width(width)}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.Plot(data, opts...)
}

// Bar 条形图中的一项
type Bar struct {
	Label string
	Value int
}

// Bars 按数值降序排列，超过 limit 的项合并为 other
func Bars(items map[string]int, limit int, other string) []Bar {
	bars := make([]Bar, 0, len(items))
	for label, v := range items {
		bars = append(bars, Bar{Label: label, Value: v})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})

	if limit > 0 && len(bars) > limit {
		rest := 0
		for _, b := range bars[limit:] {
			rest += b.Value
		}
		bars = append(bars[:limit:limit], Bar{Label: other, Value: rest})
	}
	return bars
}

// BarChart 画横向条形图，每 2% 一个字符
func BarChart(items map[string]int, limit int, other string) string {
	total := 0
	for _, v := range items {
		total += v
	}
	if total == 0 {
		return ""
	}

	bars := Bars(items, limit, other)
	width := 0
	for _, b := range bars {
		width = max(width, lipgloss.Width(b.Label))
	}

	var sb strings.Builder
	for i, b := range bars {
		pct := float64(b.Value) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		style := lipgloss.NewStyle().Foreground(palette[colorIndex(b.Label)])
		fmt.Fprintf(&sb, "%-*s %s %.1f%% (%d)", width, b.Label, style.Render(bar), pct, b.Value)
		if i < len(bars)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// colorIndex 按名称选择固定的颜色
func colorIndex(label string) int {
	sum := 0
	for _, c := range label {
		sum += int(c)
	}
	return sum % len(palette)
}
