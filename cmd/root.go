package cmd

import (
	"errors"

	"text-ingest/config"
	"text-ingest/pkg/logger"
	"text-ingest/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "text-ingest",
		Short: "文本上传校验、统计与存储服务",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		zap.S().Info("使用 'serve' 子命令启动服务")
		cmd.Help()
	}
	rootCmd.Version = util.GetVersion().Version
	return rootCmd
}

// loadConfig 读取并校验配置，同时初始化全局 logger
// 返回的 flush 需在命令结束前调用
func loadConfig(configFilePath string) (*config.GlobalConfig, *zap.Logger, func(), error) {
	cfg, err := config.Load(configFilePath)
	if err != nil {
		return nil, nil, nil, err
	}
	l, flush, err := logger.Setup(cfg.LogConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		flush()
		return nil, nil, nil, errors.Join(errs...)
	}
	return cfg, l, flush, nil
}
