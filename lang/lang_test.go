package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	defer Init("en")

	tests := []struct {
		name string
		tag  string
		id   string
		want string
	}{
		{"英文", "en", "Save All", "Save All"},
		{"中文", "zh", "Save All", "全部保存"},
		{"带编码的中文环境", "zh_CN.UTF-8", "New Folder", "新建文件夹"},
		{"未知语言回退英文", "xx", "Save", "Save"},
		{"未登记的消息原样返回", "zh", "nothing registered", "nothing registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.tag)
			assert.Equal(t, tt.want, T(tt.id))
		})
	}
}

func TestTemplate(t *testing.T) {
	defer Init("en")
	Init("zh")
	got := Tf("{{.Count}} problems in {{.Files}} files", map[string]any{"Count": 3, "Files": 2})
	assert.Equal(t, "2 个文件中共有 3 个问题", got)
}
