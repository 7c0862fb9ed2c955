package project

import (
	"fmt"
	"time"

	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/project/tree"
	"github.com/spf13/cobra"
)

var (
	statusSamples  int
	statusInterval time.Duration
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示工作区、后台 worker 和内存状态",
	Long: `status 输出树的统计、后台调度器状态、内容缓存占用和内存采样。

示例：
  workbench project status
  workbench project status --samples 20 --interval 200ms   # 采样 20 次并画出堆占用曲线`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	StatusCmd.Flags().IntVar(&statusSamples, "samples", 1, "内存采样次数，大于 1 时画出曲线")
	StatusCmd.Flags().DurationVar(&statusInterval, "interval", 100*time.Millisecond, "采样间隔")
}

func runStatus(cmd *cobra.Command, args []string) {
	w := mustWorkspace()

	fmt.Println(pathStyle.Render(sharedRoot))
	fmt.Println(tree.Stats(w.Tree()).String())

	d := w.Dispatcher().Stats()
	mode := "workers"
	if d.Fallback {
		mode = "in-process"
	}
	fmt.Printf("dispatcher: %s, %d workers, %d busy, %d queued\n", mode, d.Workers, d.Busy, d.Queued)

	v := w.ValidationStats()
	fmt.Printf("validation: %d submitted, %d applied, %d stale, %d failed\n", v.Submitted, v.Applied, v.Stale, v.Failed)
	fmt.Printf("cache: %d/%d entries\n", w.Cache().Len(), w.Settings().CacheSize)

	for _, n := range w.Notices() {
		fmt.Printf("%s %s\n", warningStyle.Render(string(n.Level)), n.Message)
	}

	if sharedMonitor == nil {
		return
	}
	for i := 0; i < statusSamples; i++ {
		if i > 0 {
			select {
			case <-cmd.Context().Done():
				return
			case <-time.After(statusInterval):
			}
		}
		sharedMonitor.Sample()
	}
	fmt.Printf("memory: %s\n", sharedMonitor.Summary())
	if chart := sharedMonitor.Chart(60, 8, lang.T("Memory usage (MiB)")); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
}
