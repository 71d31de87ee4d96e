package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tip-core/pkg/config"
	"tip-core/pkg/database"
	"tip-core/pkg/logger"
)

var verbose bool

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "tip-cli",
	Short: "加密小费结算运维工具",
	Long: `tip-core 的命令行工具。
支持只读验证一笔交易、对账已入账的小费、写入演示数据以及查看支持的链。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
		if verbose {
			logger.Init(config.Global.App.Env)
		}
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	// Ctrl-C 中止正在等待的链上查询
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出结算流水线日志")
}

func openDB() (*gorm.DB, error) {
	return database.ConnectPostgres(config.Global.DB.DSN(), false)
}
