package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEditAndUndo(t *testing.T) {
	b := NewBuffer("hello\nworld")
	var changes []string
	b.OnChange(func(text string) { changes = append(changes, text) })

	edit := TextEdit{Range: Range{Start: Position{0, 3}, End: Position{1, 2}}, NewText: "X"}
	require.NoError(t, b.ApplyEdit(edit))
	assert.Equal(t, "helXrld", b.Value())
	assert.Equal(t, Cursor(0, 4), b.Selection())

	require.NoError(t, b.Undo())
	assert.Equal(t, "hello\nworld", b.Value())
	require.NoError(t, b.Redo())
	assert.Equal(t, "helXrld", b.Value())
	assert.ErrorIs(t, b.Redo(), ErrNothingToRedo)

	assert.Equal(t, []string{"helXrld", "hello\nworld", "helXrld"}, changes)

	err := b.ApplyEdit(TextEdit{Range: Cursor(5, 0), NewText: "x"})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, "helXrld", b.Value(), "失败的编辑不修改文本")

	b.SetValue("fresh")
	assert.ErrorIs(t, b.Undo(), ErrNothingToUndo)
	assert.Len(t, changes, 3, "SetValue 不触发回调")
}

func TestApplyEditsBackToFront(t *testing.T) {
	b := NewBuffer("a b c\nd e f")
	edits := []TextEdit{
		{Range: Range{Start: Position{0, 0}, End: Position{0, 1}}, NewText: "alpha"},
		{Range: Range{Start: Position{1, 4}, End: Position{1, 5}}, NewText: "phi"},
		{Range: Range{Start: Position{0, 4}, End: Position{0, 5}}, NewText: "gamma"},
	}
	require.NoError(t, b.ApplyEdits(edits))
	assert.Equal(t, "alpha b gamma\nd e phi", b.Value())

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Undo())
	}
	assert.Equal(t, "a b c\nd e f", b.Value())
}

func TestFindAndReplace(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		repl  string
		opts  SearchOptions
		want  string
		count int
	}{
		{name: "忽略大小写", text: "foo Foo", query: "foo", repl: "x", want: "x x", count: 2},
		{name: "区分大小写", text: "foo Foo", query: "foo", repl: "x", opts: SearchOptions{CaseSensitive: true}, want: "x Foo", count: 1},
		{name: "整词", text: "foo food foo_bar\nfoo", query: "foo", repl: "bar", opts: SearchOptions{WholeWord: true}, want: "bar food foo_bar\nbar", count: 2},
		{name: "正则", text: "a1 b22 c333", query: `\d+`, repl: "#", opts: SearchOptions{Regexp: true}, want: "a# b# c#", count: 3},
		{name: "特殊字符按字面匹配", text: "a.b axb", query: "a.b", repl: "z", want: "z axb", count: 1},
		{name: "没有匹配", text: "abc", query: "x", repl: "y", want: "abc", count: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			n, err := b.ReplaceAll(tt.query, tt.repl, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, tt.want, b.Value())
		})
	}

	_, err := NewBuffer("x").Find("(", SearchOptions{Regexp: true})
	assert.Error(t, err)
}

func TestMultiCursorTyping(t *testing.T) {
	b := NewBuffer("ab\ncd\nef")
	assert.True(t, b.AddCursorBelow())
	assert.True(t, b.AddCursorBelow())
	assert.False(t, b.AddCursorBelow(), "已经是最后一行")

	require.NoError(t, b.Type("// "))
	assert.Equal(t, "// ab\n// cd\n// ef", b.Value())
	assert.Equal(t, []Range{Cursor(0, 3), Cursor(1, 3), Cursor(2, 3)}, b.Selections())

	b.SetSelection(Cursor(1, 1))
	assert.True(t, b.AddCursorAbove())
	assert.False(t, b.AddCursorAbove())
	assert.Len(t, b.Selections(), 2)
}

func TestSelectionsReplaceText(t *testing.T) {
	b := NewBuffer("let a = 1; let b = 2;")
	n, err := b.SelectMatches("let", SearchOptions{WholeWord: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, b.Type("const"))
	assert.Equal(t, "const a = 1; const b = 2;", b.Value())
	assert.Equal(t, []Range{Cursor(0, 5), Cursor(0, 18)}, b.Selections())

	b.SelectAll()
	got, err := b.TextInRange(b.Selection())
	require.NoError(t, err)
	assert.Equal(t, b.Value(), got)
}

func TestMarkersAndReveal(t *testing.T) {
	b := NewBuffer("one\ntwo")
	b.SetMarkers("validator", []Marker{{Line: 2, Column: 1, Message: "bad", Severity: "error"}})
	assert.Len(t, b.Markers("validator"), 1)
	assert.Empty(t, b.Markers("other"))

	b.SetMarkers("validator", nil)
	assert.Empty(t, b.Markers("validator"))

	b.RevealPosition(10, 10)
	assert.Equal(t, Position{Line: 1, Column: 3}, b.Revealed(), "越界位置被裁剪")

	assert.Equal(t, Range{Start: Position{0, 0}, End: Position{0, 3}}, b.WordAt(Position{0, 1}))
	line, ok := b.Line(1)
	assert.True(t, ok)
	assert.Equal(t, "two", line)
	assert.Equal(t, 2, b.LineCount())
}

func TestLineEndings(t *testing.T) {
	assert.Equal(t, LineEndingCRLF, DetectLineEnding("a\r\nb"))
	assert.Equal(t, LineEndingCR, DetectLineEnding("a\rb"))
	assert.Equal(t, LineEndingLF, DetectLineEnding("a\nb"))
	assert.Equal(t, "a\r\nb\r\nc", ConvertLineEnding("a\nb\rc", LineEndingCRLF))
	assert.Equal(t, "a\nb", ConvertLineEnding("a\r\nb", LineEndingLF))
}
