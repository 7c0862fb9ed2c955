package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjzsdu/workbench/config"
	"github.com/sjzsdu/workbench/editor"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/json"
	"github.com/sjzsdu/workbench/helper/logging"
	"github.com/sjzsdu/workbench/monitor"
	"github.com/sjzsdu/workbench/project"
	"github.com/sjzsdu/workbench/share"
	"github.com/sjzsdu/workbench/storage"
	"github.com/sjzsdu/workbench/workspace"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

var (
	sharedWorkspace *workspace.Workspace
	sharedMonitor   *monitor.Monitor
	sharedEditor    *editor.Buffer
	sharedRoot      string
)

// GetWorkspace 打开 --directory 或 --repository 指定的项目，同一进程内只打开一次
func GetWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	if sharedWorkspace != nil {
		return sharedWorkspace, nil
	}

	settings := config.Load()
	logger := logging.Named("workspace")

	sharedMonitor = monitor.New(monitor.Options{
		Interval:      settings.MonitorInterval,
		WarnBytes:     uint64(settings.MemoryWarnMB) << 20,
		CriticalBytes: uint64(settings.MemoryCriticalMB) << 20,
		Logger:        logging.Named("monitor"),
	})

	source := repoURL
	if source == "" {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return nil, fmt.Errorf("无法获取绝对路径: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("无法打开目录 %s: %w", abs, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s 不是目录", abs)
		}
		source = abs
	}

	sharedEditor = editor.NewBuffer("")
	opts := workspace.Options{
		Editor:   sharedEditor,
		Monitor:  sharedMonitor,
		Logger:   logger,
		Settings: settings,
	}
	// 每个项目一个快照目录
	snapDir := helper.GetPath(filepath.Join(share.SNAPSHOT_DIR, fmt.Sprintf("%016x", xxh3.HashString(source))))
	if store, err := json.NewJSONStoreAt(snapDir); err == nil {
		opts.Snapshots = store
	} else {
		logger.Warn("快照目录不可用", zap.String("dir", snapDir), zap.Error(err))
	}

	w := workspace.New(opts)
	var (
		report *project.ImportReport
		err    error
	)
	if repoURL != "" {
		report, err = w.ImportRepository(ctx, repoURL, storage.CloneOptions{})
	} else {
		report, err = w.ImportFolder(ctx, storage.NewOS(source), "")
	}
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("打开项目 %s 失败: %w", source, err)
	}
	logger.Debug("项目已打开",
		zap.String("source", source),
		zap.Int("files", report.Files),
		zap.Int("folders", report.Folders),
		zap.Strings("failed", report.Failed))

	// 编辑缓冲区中的输入写回当前文件
	sharedEditor.OnChange(func(text string) {
		if p, ok := w.ActiveFile(); ok {
			_ = w.UpdateContent(p, text)
		}
	})

	sharedMonitor.Start()
	w.Cleanup().Register("monitor", func() error {
		sharedMonitor.Stop()
		return nil
	})

	sharedWorkspace = w
	sharedRoot = source
	return w, nil
}

// CloseWorkspace 关闭已打开的工作区，未修改的内容不会回写
func CloseWorkspace() {
	if sharedWorkspace == nil {
		return
	}
	if err := sharedWorkspace.Close(); err != nil {
		logging.L().Warn("关闭工作区失败", zap.Error(err))
	}
	sharedWorkspace = nil
}
