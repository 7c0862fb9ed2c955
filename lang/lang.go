// Package lang 提供界面文案的本地化
package lang

import (
	"embed"
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   = language.English
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, name := range []string{"locales/en.yaml", "locales/zh.yaml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			panic("lang: " + err.Error())
		}
	}
	Init(detect())
}

// detect 从环境变量推断语言
func detect() string {
	for _, key := range []string{"WORKBENCH_LANG", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "en"
}

// Init 设置当前语言，如 "zh", "zh_CN.UTF-8", "en-US"
func Init(tag string) {
	tag = strings.SplitN(tag, ".", 2)[0]
	tag = strings.ReplaceAll(tag, "_", "-")
	parsed, err := language.Parse(tag)
	if err != nil {
		parsed = language.English
	}

	matcher := language.NewMatcher(bundle.LanguageTags())
	_, idx, _ := matcher.Match(parsed)

	mu.Lock()
	defer mu.Unlock()
	current = bundle.LanguageTags()[idx]
	localizer = i18n.NewLocalizer(bundle, current.String())
}

// Current 返回当前语言
func Current() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T 翻译消息，找不到时原样返回
func T(id string) string {
	return Tf(id, nil)
}

// Tf 翻译带模板参数的消息
func Tf(id string, data map[string]any) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	msg, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: id},
		TemplateData:   data,
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
