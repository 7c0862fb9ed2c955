package workspace

import (
	"context"
	"testing"

	"github.com/sjzsdu/workbench/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAppliesToActiveFile(t *testing.T) {
	ctx := context.Background()
	ed := newMockEditor()
	w := newTestWorkspace(t, fakeClock(), Options{Editor: ed})

	_, err := w.CreateFile(ctx, "", "app.js")
	require.NoError(t, err)
	raw := "const x = 1;   \n\n\n\nconsole.log(x)"
	require.NoError(t, w.UpdateContent("app.js", raw))

	want := "const x = 1;\n\nconsole.log(x)\n"
	out, err := w.Format(ctx, "app.js", false)
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.Equal(t, raw, w.Peek("app.js"), "未指定 apply 时不修改内容")

	out, err = w.Format(ctx, "/app.js", true)
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.Equal(t, want, w.Peek("app.js"))
	ed.AssertCalled(t, "SetValue", want)

	_, err = w.Format(ctx, "missing.js", false)
	assert.ErrorIs(t, err, project.ErrNotFound)
	assert.NotEmpty(t, w.Notices())
}

func TestSymbols(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, fakeClock(), Options{})

	_, err := w.CreateFile(ctx, "", "util.js")
	require.NoError(t, err)
	require.NoError(t, w.UpdateContent("util.js", "import fs from 'fs'\nclass Box {}\nfunction load(p) { return p }\nconst n = 1\n"))

	s, err := w.Symbols(ctx, "util.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"load"}, s.Functions)
	assert.Equal(t, []string{"n"}, s.Variables)
	assert.Equal(t, []string{"Box"}, s.Classes)
	assert.Equal(t, []string{"fs"}, s.Imports)

	_, err = w.CreateFile(ctx, "", "notes.md")
	require.NoError(t, err)
	s, err = w.Symbols(ctx, "notes.md")
	require.NoError(t, err)
	assert.True(t, s.Empty())

	_, err = w.Symbols(ctx, "../escape.js")
	assert.Error(t, err)
}

func TestSyncedTreeFlushesPendingEdits(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, fakeClock(), Options{})

	_, err := w.CreateFile(ctx, "", "main.py")
	require.NoError(t, err)
	require.NoError(t, w.UpdateContent("main.py", "print(2)"))

	n, err := w.Tree().Find("main.py")
	require.NoError(t, err)
	assert.Equal(t, Scaffold("main.py"), n.Content)

	n, err = w.SyncedTree().Find("main.py")
	require.NoError(t, err)
	assert.Equal(t, "print(2)", n.Content)

	n, err = w.Tree().Find("main.py")
	require.NoError(t, err)
	assert.Equal(t, "print(2)", n.Content)
}
