package project

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"sort"
	"time"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/helper/logging"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchDelay time.Duration

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监听磁盘变化，重新载入并校验变化的文件",
	Long: `watch 监听打开目录下的文件变化（跳过 .git、node_modules 等目录），
变化平息后重新载入工作区并校验发生变化的文件。按 Ctrl+C 退出。

仅适用于 --directory 打开的项目。`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	WatchCmd.Flags().DurationVar(&watchDelay, "delay", 300*time.Millisecond, "变化平息多久后重新载入")
}

func runWatch(cmd *cobra.Command, args []string) {
	mustWorkspace()
	if !isLocalRoot() {
		fmt.Println("watch 只支持本地目录")
		os.Exit(1)
	}
	logger := logging.Named("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	watcher, err := storage.Watch(ctx, sharedRoot, project.IsExcludedDir, logger)
	if err != nil {
		fmt.Printf("监听失败: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	debouncer := helper.NewDebouncer(clock.Real(), watchDelay)
	defer debouncer.Stop()
	reload := make(chan struct{}, 1)
	changed := map[string]bool{}

	fmt.Printf("正在监听 %s\n", sharedRoot)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events():
			if !ok {
				return
			}
			if hidden(ev.Path) {
				continue
			}
			logger.Debug("文件变化", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
			changed[ev.Path] = true
			debouncer.Trigger(func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			changed = map[string]bool{}
			sort.Strings(paths)
			revalidate(ctx, paths)
		}
	}
}

func isLocalRoot() bool {
	info, err := os.Stat(sharedRoot)
	return err == nil && info.IsDir()
}

// hidden 判断路径中是否有被导入跳过的目录
func hidden(p string) bool {
	for _, a := range helper.Ancestors(p) {
		if project.IsExcludedDir(path.Base(a)) {
			return true
		}
	}
	return project.IsExcludedDir(path.Base(p))
}

// revalidate 重新载入工作区并校验仍然存在的变化文件
func revalidate(ctx context.Context, paths []string) {
	w := mustWorkspace()
	report, err := w.ImportFolder(ctx, storage.NewOS(sharedRoot), "")
	if err != nil {
		fmt.Printf("重新载入失败: %v\n", err)
		return
	}
	fmt.Printf("[%s] 已重新载入 %d 个文件\n", time.Now().Format("15:04:05"), report.Files)

	tree := w.Tree()
	for _, p := range paths {
		n, err := tree.Find(p)
		if err != nil {
			fmt.Printf("  %s %s\n", pathStyle.Render(p), dimStyle.Render("removed"))
			continue
		}
		if n.IsDir() {
			continue
		}
		res, err := w.Validate(ctx, p)
		if err != nil {
			fmt.Printf("  %s %s\n", pathStyle.Render(p), errorStyle.Render(err.Error()))
			continue
		}
		if len(res.Errors) == 0 {
			fmt.Printf("  %s %s\n", pathStyle.Render(p), okStyle.Render("ok"))
			continue
		}
		fmt.Printf("  %s\n", pathStyle.Render(p))
		for _, d := range res.Errors {
			fmt.Println("  " + formatDiagnostic(d))
		}
	}
}
