package cmd

import (
	"text-ingest/pkg/db"
	"text-ingest/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMigrateCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "在配置的存储后端上创建记录表",
		Long:  "按 TABLE_NAME 创建处理结果表；redis/badger 无需建表，只做连通性检查",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, flush, err := loadConfig(configFilePath)
			if err != nil {
				zap.S().Errorf("加载配置错误:%s", err.Error())
				return err
			}
			defer flush()

			ctx := signals.SetupSignalHandler()

			// 各后端在打开时已建表，这里再显式执行一次并检查连通性
			store, err := db.Open(ctx, cfg, logger)
			if err != nil {
				zap.S().Errorf("存储初始化错误:%s", err.Error())
				return err
			}
			defer store.Close()

			if m, ok := store.(db.Migrator); ok {
				if err := m.Migrate(ctx); err != nil {
					zap.S().Errorf("建表失败:%s", err.Error())
					return err
				}
			}
			if p, ok := store.(db.Pinger); ok {
				if err := p.Ping(ctx); err != nil {
					zap.S().Errorf("存储连通性检查失败:%s", err.Error())
					return err
				}
			}
			zap.S().Infof("存储 %s 已就绪，表名: %s", cfg.StoreConfig.Backend, cfg.StoreConfig.TableName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "", "配置文件路径（可选，环境变量优先）")
	return cmd
}
