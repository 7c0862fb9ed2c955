package helper

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterYesNo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
		wantErr    error
	}{
		{name: "直接回车使用默认值", input: "\n", defaultYes: true, want: true},
		{name: "英文 yes", input: "yes\n", want: true},
		{name: "全角 Y", input: "Ｙ\r\n", want: true},
		{name: "单独的回车符", input: "n\r", defaultYes: true, want: false},
		{name: "中文否", input: "否\n", defaultYes: true, want: false},
		{name: "无效输入后重试", input: "maybe\nn\n", defaultYes: true, want: false},
		{name: "输入结束", input: "", defaultYes: true, want: true, wantErr: io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).YesNo("continue? ", tt.defaultYes)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err)
			assert.True(t, strings.HasPrefix(out.String(), "continue? "))
		})
	}
}

func TestPrompterSharesInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\r\n  {\"path\": \"a.js\"}  \n"), &out)

	ok, err := p.YesNo("args? ", false)
	require.NoError(t, err)
	assert.True(t, ok)

	line, err := p.Line("json: ")
	require.NoError(t, err)
	assert.Equal(t, `{"path": "a.js"}`, line)
	assert.Equal(t, "args? json: ", out.String())

	_, err = p.Line("more: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestNormalizeYN(t *testing.T) {
	assert.Equal(t, "yes", normalizeYN(" 是 "))
	assert.Equal(t, "yes", normalizeYN("ＹＥＳ"))
	assert.Equal(t, "no", normalizeYN("不"))
	assert.Equal(t, "", normalizeYN("  "))
}
