package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/workbench/helper"
	projsearch "github.com/sjzsdu/workbench/project/search"
	"github.com/spf13/cobra"
)

var (
	searchNameContains    string
	searchNameRegex       string
	searchContentContains string
	searchContentRegex    string
	searchExtensions      []string
	searchIncludeHidden   bool
	searchIncludeDirs     bool
	searchIncludeFiles    bool
	searchDepth           int
	searchIgnoreCase      bool
	searchSubdir          string
	searchJSON            bool
)

var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "在工作区的指定目录下并发搜索",
	Long: `search 子命令对给定查询词进行并发搜索，默认同时按名称与内容进行匹配（任一匹配即命中）。也可通过参数指定仅按名称或内容、或使用正则。

示例：
  workbench project search README                        # 默认：名称或内容包含 "README"
  workbench project search '.*_test\\.go$' --name-regex   # 按名称正则
  workbench project search TODO --content                # 仅按内容子串
  workbench project search '(?i)license' --content-regex # 按内容正则（忽略大小写）
  workbench project search README --ext go,md            # 仅搜索 go、md 文件
  workbench project search README --hidden               # 包含隐藏文件/目录
  workbench project search src --dirs --subdir src       # 仅返回目录，并限定在 src 子目录
  workbench project search util --files=false            # 不返回文件
  workbench project search read --depth 2                # 限制相对根的深度为 2（根为 0）
  workbench project search app --json                    # 输出 JSON`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	SearchCmd.Flags().StringVar(&searchNameContains, "name", "", "名称包含（子串匹配）")
	SearchCmd.Flags().StringVar(&searchNameRegex, "name-regex", "", "名称正则（优先于 name）")
	SearchCmd.Flags().StringVar(&searchContentContains, "content", "", "内容包含（子串匹配）")
	SearchCmd.Flags().StringVar(&searchContentRegex, "content-regex", "", "内容正则（优先于 content）")
	SearchCmd.Flags().StringSliceVar(&searchExtensions, "ext", []string{}, "文件扩展名过滤，例如: go,md；为空表示不过滤")
	SearchCmd.Flags().BoolVar(&searchIncludeHidden, "hidden", false, "包含隐藏文件/目录")
	SearchCmd.Flags().BoolVar(&searchIncludeDirs, "dirs", false, "结果中包含目录")
	SearchCmd.Flags().BoolVar(&searchIncludeFiles, "files", true, "结果中包含文件")
	SearchCmd.Flags().IntVar(&searchDepth, "depth", 0, "限制搜索深度（根为0，0表示不限制）")
	SearchCmd.Flags().BoolVar(&searchIgnoreCase, "ignore-case", true, "大小写不敏感匹配（对子串与正则均生效）")
	SearchCmd.Flags().StringVar(&searchSubdir, "subdir", ".", "限定搜索的子目录（相对项目根）")
	SearchCmd.Flags().BoolVar(&searchJSON, "json", false, "以 JSON 输出结果")
}

func runSearch(cmd *cobra.Command, args []string) {
	query := args[0]
	w := mustWorkspace()
	target := targetOrExit([]string{searchSubdir})

	opts := projsearch.DefaultSearchOptions()
	opts.NameContains = searchNameContains
	opts.NameRegex = searchNameRegex
	opts.ContentContains = searchContentContains
	opts.ContentRegex = searchContentRegex
	// 未指定匹配方式时名称或内容任一包含查询词即命中
	if opts.NameContains == "" && opts.NameRegex == "" && opts.ContentContains == "" && opts.ContentRegex == "" {
		opts.NameContains = query
		opts.ContentContains = query
		opts.MatchAny = true
	}
	opts.Extensions = normalizeExts(searchExtensions)
	opts.IncludeHidden = searchIncludeHidden
	opts.IncludeDirs = searchIncludeDirs
	opts.IncludeFiles = searchIncludeFiles
	opts.MaxDepth = max(searchDepth, 0)
	opts.CaseInsensitive = searchIgnoreCase

	matched, err := projsearch.Search(cmd.Context(), w.SyncedTree(), target, opts)
	if err != nil {
		fmt.Printf("搜索出错: %v\n", err)
		os.Exit(1)
	}

	if searchJSON {
		type hit struct {
			Path     string `json:"path"`
			Dir      bool   `json:"dir"`
			Language string `json:"language,omitempty"`
			Size     int    `json:"size"`
		}
		hits := make([]hit, 0, len(matched))
		for _, n := range matched {
			hits = append(hits, hit{Path: n.Path, Dir: n.IsDir(), Language: helper.LanguageOf(n.Path), Size: len(n.Content)})
		}
		data, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(matched) == 0 {
		fmt.Println(dimStyle.Render("未找到匹配项"))
		return
	}
	for _, n := range matched {
		if n.IsDir() {
			fmt.Printf("%s %s/\n", dimStyle.Render("dir "), pathStyle.Render(n.Path))
			continue
		}
		lang := helper.LanguageOf(n.Path)
		if lang == "" {
			lang = "-"
		}
		fmt.Printf("%s %s %s\n", dimStyle.Render("file"), n.Path, dimStyle.Render(fmt.Sprintf("(%s, %d B)", lang, len(n.Content))))
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("共 %d 项", len(matched))))
}

func normalizeExts(exts []string) []string {
	if len(exts) == 0 {
		return exts
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		for _, p := range strings.Split(e, ",") {
			if p = strings.TrimPrefix(strings.TrimSpace(p), "."); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
