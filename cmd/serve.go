package cmd

import (
	"context"

	"text-ingest/pkg/db"
	"text-ingest/pkg/server"
	"text-ingest/pkg/service"
	"text-ingest/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 上传服务",
		Long:  "接收 text/plain 上传，校验并统计词数与行数，结果写入配置的存储后端",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, flush, err := loadConfig(configFilePath)
			if err != nil {
				zap.S().Errorf("加载配置错误:%s", err.Error())
				return err
			}
			defer flush()

			ctx := signals.SetupSignalHandler()

			store, err := db.Open(ctx, cfg, logger)
			if err != nil {
				zap.S().Errorf("存储初始化错误:%s", err.Error())
				return err
			}
			defer store.Close()

			ingester := service.NewIngestService(store, logger)
			srv := server.NewServer(cfg.ServerConfig, ingester, store, logger)

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- srv.Start()
			}()

			select {
			case err := <-serverErr:
				if err != nil {
					zap.S().Errorf("服务异常退出:%s", err.Error())
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerConfig.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					zap.S().Errorf("优雅退出失败:%s", err.Error())
					return err
				}
				zap.S().Info("服务已停止")
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "", "配置文件路径（可选，环境变量优先）")
	return cmd
}
