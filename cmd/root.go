package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/config"
	"github.com/sjzsdu/workbench/helper/logging"
	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/share"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	workDir   string
	repoURL   string
	debugMode bool
	langFlag  string
	logFormat string
)

var RootCmd = rootCmd

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: lang.T("Workbench command line tool"),
	Long:  lang.T("In-memory project workspace with background checks, previews and an MCP server"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Fprintln(os.Stderr, lang.T("Invalid arguments")+": ", args)
		os.Exit(1)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		CloseWorkspace()
		_ = logging.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// 子命令的 PersistentPreRun 不覆盖根命令的初始化
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVarP(&workDir, "directory", "d", ".", lang.T("Directory to open"))
	rootCmd.PersistentFlags().StringVarP(&repoURL, "repository", "r", "", lang.T("Git repository URL to open instead of a directory"))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "v", false, lang.T("Enable debug logging"))
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", lang.T("Interface language"))
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", lang.T("Log format (console, json)"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		share.SetDebug(debugMode)
		if err := config.LoadConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
		}
		settings := config.Load()

		tag := langFlag
		if tag == "" {
			tag = settings.Lang
		}
		lang.Init(tag)

		level := settings.LogLevel
		if debugMode {
			level = "debug"
		}
		if err := logging.Init(logging.Config{Level: level, Format: logFormat, OutputPath: "stderr"}); err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing logger:", err)
			return
		}
		logging.L().Debug("配置已加载", zap.String("file", config.ConfigFile()), zap.String("lang", tag), zap.String("level", level))
	}
}
