package project

import (
	"context"
	"errors"
	"testing"

	"github.com/sjzsdu/workbench/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	files := map[string]string{
		"site/index.html":          "<html></html>",
		"site/css/style.css":       "body{}",
		"site/app.js":              "let a;",
		"site/node_modules/x/i.js": "ignored",
		"site/.git/HEAD":           "ref",
		"other/readme.md":          "outside root",
	}
	for p, text := range files {
		require.NoError(t, s.Write(ctx, p, text))
	}

	tree, report, err := Import(ctx, s, "site")
	require.NoError(t, err)

	assert.Equal(t, []string{"css", "css/style.css", "app.js", "index.html"}, tree.Paths())
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 1, report.Folders)
	assert.ElementsMatch(t, []string{"site/node_modules", "site/.git"}, report.Skipped)
	assert.Empty(t, report.Failed)

	n, err := tree.Find("css/style.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", n.Content)
	assert.Equal(t, "site/css/style.css", n.Handle)
}

type flakyReader struct {
	storage.Reader
	fail string
}

func (f flakyReader) Read(ctx context.Context, p string) (string, error) {
	if p == f.fail {
		return "", errors.New("disk error")
	}
	return f.Reader.Read(ctx, p)
}

func TestImportPartialFailure(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	require.NoError(t, s.Write(ctx, "a.js", "a"))
	require.NoError(t, s.Write(ctx, "b.js", "b"))

	tree, report, err := Import(ctx, flakyReader{Reader: s, fail: "b.js"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.js"}, report.Failed)

	n, err := tree.Find("b.js")
	require.NoError(t, err)
	assert.Empty(t, n.Content)
}

func TestImportErrors(t *testing.T) {
	_, _, err := Import(context.Background(), nil, "")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, _, err = Import(context.Background(), storage.NewMemory(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	tree, _, err := Import(context.Background(), storage.NewMemory(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}
