package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		path string
		lang string
	}{
		{"src/app.js", LangJavaScript},
		{"src/App.JSX", LangJSX},
		{"types.ts", LangTypeScript},
		{"main.py", LangPython},
		{"index.HTML", LangHTML},
		{"page.htm", LangHTML},
		{"style.css", LangCSS},
		{"README.md", LangMarkdown},
		{"Makefile", ""},
		{"image.png", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lang, LanguageOf(tt.path), tt.path)
	}
}

func TestFileClassification(t *testing.T) {
	assert.True(t, IsMarkupFile("a/index.html"))
	assert.False(t, IsMarkupFile("a/index.md"))
	assert.True(t, IsStylesheetFile("theme.scss"))
	assert.True(t, IsScriptFile("main.js"))
	assert.False(t, IsScriptFile("main.ts"))
	assert.True(t, IsMarkdownFile("notes.markdown"))
	assert.True(t, IsTextFile("LICENSE"))
	assert.False(t, IsTextFile("photo.jpg"))
}
