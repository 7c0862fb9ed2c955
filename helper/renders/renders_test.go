package renders

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRendererStreams(t *testing.T) {
	var out bytes.Buffer
	r, err := NewMarkdownRenderer(&out, 80)
	require.NoError(t, err)

	require.NoError(t, r.WriteStream("hello "))
	assert.Empty(t, out.String(), "段落未结束时不输出")

	require.NoError(t, r.WriteStream("world\n"))
	assert.Contains(t, out.String(), "hello world")

	require.NoError(t, r.WriteStream("```js\nconst a = 1\n"))
	before := out.Len()
	r.Done()
	assert.Greater(t, out.Len(), before)
	assert.Contains(t, out.String(), "const")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\n\n\nbody text", 60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
	assert.NotContains(t, out, "\n\n\n")
}

func TestHighlightCode(t *testing.T) {
	tests := []struct {
		name     string
		language string
		lexer    string
	}{
		{name: "javascript", language: "javascript", lexer: "javascript"},
		{name: "jsx 使用 react", language: "jsx", lexer: "react"},
		{name: "未知语言", language: "", lexer: "plaintext"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lexer, LexerName(tt.language))
			var buf bytes.Buffer
			require.NoError(t, HighlightCode(&buf, "let x = 1", tt.language, ""))
			assert.NotEmpty(t, buf.String())
		})
	}
}
