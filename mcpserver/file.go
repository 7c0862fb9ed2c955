package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterFileTools 将文件相关工具注册到服务器
func RegisterFileTools(s *Server) {
	if s == nil || s.workspace == nil {
		return
	}
	bind := s.bind

	s.addTool(mcp.NewTool(
		"fs_list",
		mcp.WithDescription("列出目录内容，支持最大深度、是否包含文件/目录、是否包含隐藏项"),
		mcp.WithString("path", mcp.Required(), mcp.Description("目录路径，如 / 或 /src")),
		mcp.WithNumber("maxDepth", mcp.Description("最大深度（0 表示不限制；1 表示仅当前目录），默认 1")),
		mcp.WithBoolean("includeFiles", mcp.Description("结果是否包含文件，默认 true")),
		mcp.WithBoolean("includeDirs", mcp.Description("结果是否包含目录，默认 true")),
		mcp.WithBoolean("includeHidden", mcp.Description("是否包含隐藏文件/目录，默认 false")),
	), bind(fsList))

	s.addTool(mcp.NewTool(
		"fs_read",
		mcp.WithDescription("读取文件内容，包含尚未保存的编辑"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径，如 /index.html")),
	), bind(fsRead))

	s.addTool(mcp.NewTool(
		"fs_write",
		mcp.WithDescription("写入文件内容；文件或父目录不存在时自动创建"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径")),
		mcp.WithString("content", mcp.Required(), mcp.Description("要写入的文本内容")),
	), bind(fsWrite))

	s.addTool(mcp.NewTool(
		"fs_create_file",
		mcp.WithDescription("创建文件，未提供内容时使用该类型的默认模板"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径")),
		mcp.WithString("content", mcp.Description("初始文本内容，可选")),
	), bind(fsCreateFile))

	s.addTool(mcp.NewTool(
		"fs_create_dir",
		mcp.WithDescription("创建目录（递归创建父目录）"),
		mcp.WithString("path", mcp.Required(), mcp.Description("目录路径")),
	), bind(fsCreateDir))

	s.addTool(mcp.NewTool(
		"fs_delete",
		mcp.WithDescription("删除文件或目录及其全部内容"),
		mcp.WithString("path", mcp.Required(), mcp.Description("要删除的路径")),
	), bind(fsDelete))

	s.addTool(mcp.NewTool(
		"fs_rename",
		mcp.WithDescription("重命名文件或目录，打开的标签页跟随更新"),
		mcp.WithString("path", mcp.Required(), mcp.Description("原路径")),
		mcp.WithString("name", mcp.Required(), mcp.Description("新名称，不含 /")),
	), bind(fsRename))

	s.addTool(mcp.NewTool(
		"fs_move",
		mcp.WithDescription("把文件或目录移动到另一个目录下"),
		mcp.WithString("path", mcp.Required(), mcp.Description("原路径")),
		mcp.WithString("parent", mcp.Required(), mcp.Description("目标目录，/ 表示根")),
	), bind(fsMove))

	s.addTool(mcp.NewTool(
		"fs_tree",
		mcp.WithDescription("输出目录的树形结构（文本）"),
		mcp.WithString("path", mcp.Required(), mcp.Description("目录路径")),
		mcp.WithBoolean("showFiles", mcp.Description("是否显示文件，默认 true")),
		mcp.WithBoolean("showHidden", mcp.Description("是否显示隐藏项，默认 false")),
		mcp.WithNumber("maxDepth", mcp.Description("最大深度（0 表示不限制）")),
	), bind(fsTree))

	s.addTool(mcp.NewTool(
		"fs_search",
		mcp.WithDescription("搜索名称与/或内容，支持正则、扩展名、深度、隐藏项等"),
		mcp.WithString("path", mcp.Required(), mcp.Description("搜索根路径")),
		mcp.WithString("nameContains", mcp.Description("名称包含的子串，可选")),
		mcp.WithString("nameRegex", mcp.Description("名称正则，可选")),
		mcp.WithString("contentContains", mcp.Description("内容包含的子串，可选")),
		mcp.WithString("contentRegex", mcp.Description("内容正则，可选")),
		mcp.WithString("extensions", mcp.Description("扩展名列表（逗号分隔，如: js,css 或 *）")),
		mcp.WithBoolean("includeHidden", mcp.Description("包含隐藏项，默认 false")),
		mcp.WithBoolean("includeDirs", mcp.Description("返回目录结果，默认 false")),
		mcp.WithBoolean("includeFiles", mcp.Description("返回文件结果，默认 true")),
		mcp.WithBoolean("caseInsensitive", mcp.Description("大小写不敏感，默认 true")),
		mcp.WithBoolean("matchAny", mcp.Description("名称或内容任一匹配即命中，默认 false(与逻辑)")),
		mcp.WithNumber("maxDepth", mcp.Description("最大深度，0 不限")),
	), bind(fsSearch))

	s.addTool(mcp.NewTool(
		"fs_grep",
		mcp.WithDescription("在所有文件中逐行搜索文本，返回行列位置"),
		mcp.WithString("query", mcp.Required(), mcp.Description("要搜索的文本或正则")),
		mcp.WithBoolean("caseSensitive", mcp.Description("区分大小写，默认 false")),
		mcp.WithBoolean("wholeWord", mcp.Description("全词匹配，默认 false")),
		mcp.WithBoolean("regex", mcp.Description("按正则解释 query，默认 false")),
		mcp.WithString("fileTypes", mcp.Description("扩展名列表（逗号分隔）")),
		mcp.WithNumber("maxResults", mcp.Description("最大结果数，0 不限")),
	), bind(fsGrep))

	s.addTool(mcp.NewTool(
		"fs_stat",
		mcp.WithDescription("获取文件/目录的元信息，支持可选内容哈希"),
		mcp.WithString("path", mcp.Required(), mcp.Description("路径")),
		mcp.WithBoolean("hash", mcp.Description("是否计算内容哈希，默认 false")),
	), bind(fsStat))

	s.addTool(mcp.NewTool(
		"fs_save",
		mcp.WithDescription("立即把所有未保存的编辑写入存储"),
	), bind(fsSave))
}
