package workspace

import (
	"context"
	"testing"

	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(cmds []Command) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterCommands(t *testing.T) {
	r := builtinCommands()

	tests := []struct {
		name   string
		query  string
		prefix []string
		has    []string
	}{
		{name: "空查询返回全部", query: "", prefix: []string{"new-file", "new-folder", "save"}},
		{name: "子串匹配保持注册顺序", query: "save", prefix: []string{"save", "save-all"}},
		{name: "关键字", query: "mkdir", prefix: []string{"new-folder"}},
		{name: "多光标", query: "cursor", prefix: []string{"add-cursor-above", "add-cursor-below"}},
		{name: "模糊匹配", query: "tgp", has: []string{"toggle-preview"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(r.Filter(tt.query))
			require.GreaterOrEqual(t, len(got), len(tt.prefix))
			assert.Equal(t, tt.prefix, got[:len(tt.prefix)])
			for _, id := range tt.has {
				assert.Contains(t, got, id)
			}
		})
	}

	assert.Len(t, r.Filter(""), 11)
	assert.Empty(t, r.Filter("zzzzqqq"))
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Command{ID: "x", Label: "X"}))
	assert.ErrorIs(t, r.Register(Command{ID: "x", Label: "Y"}), ErrDuplicate)
	c, ok := r.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "X", c.Label)
}

func TestRunCommands(t *testing.T) {
	ctx := context.Background()
	buf := editor.NewBuffer("")
	w := newTestWorkspace(t, fakeClock(), Options{Editor: buf})

	assert.ErrorIs(t, w.Run(ctx, "new-file", "src/a.js"), project.ErrNotFound, "父目录不存在")
	require.NoError(t, w.Run(ctx, "new-folder", "src"))
	require.NoError(t, w.Run(ctx, "new-file", "src/a.js"))
	assert.Equal(t, Scaffold("a.js"), buf.Value())

	buf.SetValue("foo foo")
	require.NoError(t, w.UpdateContent("src/a.js", "foo foo"))
	require.NoError(t, w.Run(ctx, "replace", "foo", "bar"))
	assert.Equal(t, "bar bar", w.Peek("src/a.js"))
	notices := w.Notices()
	require.NotEmpty(t, notices)
	assert.Contains(t, notices[len(notices)-1].Message, "2")

	require.NoError(t, w.Run(ctx, "select-all"))
	assert.Equal(t, editor.Range{End: editor.Position{Line: 0, Column: 7}}, buf.Selection())
	require.NoError(t, w.Run(ctx, "find", "bar"))
	assert.Len(t, buf.Selections(), 2)

	require.NoError(t, w.Run(ctx, "toggle-preview"))
	require.NoError(t, w.Run(ctx, "toggle-output"))
	ui := w.UI()
	assert.False(t, ui.PreviewVisible)
	assert.True(t, ui.OutputVisible)

	require.NoError(t, w.Run(ctx, "save"))
	require.NoError(t, w.Run(ctx, "save-all"))

	assert.ErrorIs(t, w.Run(ctx, "new-file"), ErrMissingArgs)
	assert.ErrorIs(t, w.Run(ctx, "nope"), ErrUnknownCommand)
}

func TestEditorCommandsNeedCapabilities(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, fakeClock(), Options{Editor: newMockEditor()})
	_, err := w.CreateFile(ctx, "", "a.js")
	require.NoError(t, err)

	for _, id := range []string{"select-all", "add-cursor-above", "add-cursor-below"} {
		assert.ErrorIs(t, w.Run(ctx, id), ErrNoEditor, id)
	}
	assert.ErrorIs(t, w.Run(ctx, "find", "x"), ErrNoEditor)
	assert.ErrorIs(t, w.Run(ctx, "replace", "x", "y"), ErrNoEditor)

	bare := newTestWorkspace(t, fakeClock(), Options{})
	assert.ErrorIs(t, bare.Run(ctx, "save"), ErrNoActiveFile)
}
