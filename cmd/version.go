package cmd

import (
	"fmt"
	"runtime"

	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/share"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: lang.T("Print version information"),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s (%s, %s/%s)\n", share.BUILDNAME, share.VERSION, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
