package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/workbench/config"
	"github.com/sjzsdu/workbench/lang"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: lang.T("Set config"),
	Long:  lang.T("Set global configuration"),
	Run:   handleConfigCommand,
}

var (
	showAllConfigs bool
	clearConfigs   []string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVarP(&showAllConfigs, "list", "l", false, lang.T("List all configurations"))
	configCmd.Flags().StringSliceVar(&clearConfigs, "clear", []string{}, lang.T("Reset configurations to their defaults"))

	// 通过遍历 ConfigKeys 自动添加所有配置项
	for _, key := range config.GetAllConfigKeys() {
		configCmd.Flags().String(key, "", lang.T(config.GetConfigDescription(key)))
	}
}

func handleConfigCommand(cmd *cobra.Command, args []string) {
	if showAllConfigs {
		fmt.Println(lang.T("Current configurations:"))
		explicit := config.GetConfigMap()
		for _, key := range config.GetAllConfigKeys() {
			marker := " "
			if _, ok := explicit[key]; ok {
				marker = "*"
			}
			fmt.Printf("%s %s=%s\n", marker, config.GetEnvKey(key), config.GetConfig(key))
		}
		return
	}

	configChanged := false
	for _, key := range clearConfigs {
		config.ClearConfig(key)
		configChanged = true
	}

	for _, key := range config.GetAllConfigKeys() {
		flag := cmd.Flag(key)
		if flag == nil || !flag.Changed {
			continue
		}
		value, _ := cmd.Flags().GetString(key)
		if !config.IsValidConfigOption(key, value) {
			fmt.Fprintf(os.Stderr, "%s: %s=%s (%s)\n", lang.T("Invalid value"), key, value, config.GetConfigType(key))
			os.Exit(1)
		}
		config.SetConfig(key, value)
		configChanged = true
	}

	if !configChanged {
		cmd.Help()
		return
	}
	if err := config.SaveConfig(); err != nil {
		fmt.Println("Error saving config:", err)
		return
	}
	fmt.Println(lang.T("Configuration saved to") + " " + config.ConfigFile())
}
