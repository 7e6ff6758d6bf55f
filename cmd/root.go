package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"thomasfermi/logging"
)

var rootCmd = &cobra.Command{
	Use:   "thomasfermi",
	Short: "Thomas-Fermi 方程自洽求解",
	Long: `以打靶法得到初始解，再用一阶有限元自洽迭代求解
Thomas-Fermi 方程 y'' = y^(3/2)/sqrt(x)，y(x1) = 1，y(x2) = y0(x2)。`,
	SilenceUsage: true,
}

// Execute 执行命令行
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "日志级别 (debug/info/warn/error)")
	rootCmd.PersistentFlags().String("log-format", "text", "日志格式 (text/json)")
}

// newLogger 按全局参数创建日志器
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level, format), nil
}
