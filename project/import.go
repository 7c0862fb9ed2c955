package project

import (
	"context"
	"fmt"
	"sort"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/coroutine"
	"github.com/sjzsdu/workbench/storage"
)

// excludedDirs 导入时跳过的目录
var excludedDirs = map[string]bool{
	".git":         true,
	".vscode":      true,
	".idea":        true,
	"node_modules": true,
	".svn":         true,
	".hg":          true,
	".DS_Store":    true,
	"__pycache__":  true,
	"bin":          true,
	"obj":          true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"fonts":        true,
}

// IsExcludedDir 判断目录名是否会在导入时被跳过
func IsExcludedDir(name string) bool {
	return excludedDirs[name]
}

// ImportReport 记录导入结果
type ImportReport struct {
	Files   int
	Folders int
	Skipped []string // 被排除的目录
	Failed  []string // 读取失败的文件，内容为空
}

// Import 递归读取存储中 root 之下的内容并构建新树
//
// 目录按名称排序且文件夹在前；文件内容并发读取，单个文件失败不影响整体导入。
// 节点的 Handle 为其在存储中的路径。
func Import(ctx context.Context, r storage.Reader, root string) (*Tree, *ImportReport, error) {
	if r == nil {
		return nil, nil, storage.ErrUnavailable
	}
	root, err := NormalizePath(root)
	if err != nil {
		return nil, nil, err
	}

	report := &ImportReport{}
	t := New()
	var files []string

	var list func(storePath, treePath string) error
	list = func(storePath, treePath string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := r.List(ctx, storePath)
		if err != nil {
			return fmt.Errorf("list %q: %w", storePath, err)
		}
		sortEntries(entries)

		for _, e := range entries {
			if ValidateName(e.Name) != nil {
				continue
			}
			sp := helper.JoinPath(storePath, e.Name)
			if e.IsDir {
				if excludedDirs[e.Name] {
					report.Skipped = append(report.Skipped, sp)
					continue
				}
				folder := NewFolder(e.Name)
				folder.Handle = sp
				if t, err = t.Insert(treePath, folder); err != nil {
					return err
				}
				report.Folders++
				if err := list(sp, helper.JoinPath(treePath, e.Name)); err != nil {
					return err
				}
				continue
			}

			file := NewFile(e.Name, "")
			file.Handle = sp
			if t, err = t.Insert(treePath, file); err != nil {
				return err
			}
			files = append(files, helper.JoinPath(treePath, e.Name))
		}
		return nil
	}

	if err := list(root, ""); err != nil {
		return nil, nil, err
	}

	contents := coroutine.Map(ctx, coroutine.DefaultMaxWorkers(), files, func(p string) (string, error) {
		return r.Read(ctx, helper.JoinPath(root, p))
	})
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for i, res := range contents {
		if res.Err != nil {
			report.Failed = append(report.Failed, files[i])
			continue
		}
		if t, err = t.SetContent(files[i], res.Value); err != nil {
			return nil, nil, err
		}
	}
	report.Files = len(files)
	return t, report, nil
}

func sortEntries(entries []storage.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}
