// observation-processor：将各提供方的原始观测处理为带区域归属的规范化观测
package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"observation-processor/internal/config"
	"observation-processor/internal/logger"
)

// version 在构建时通过 ldflags 注入
var version = "dev"

// cfg 在 PersistentPreRunE 中加载，供各子命令使用
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "observation-processor",
	Short: "Process verbatim biodiversity observations",
	Long: `observation-processor reads verbatim observations per data provider,
converts them to processed observations, enriches each coordinate with
county, municipality, parish and province, and writes the result in batches.

Configuration is read from ./observation-processor.yaml (or --config) and
OBSPROC_* environment variables; .env files are loaded first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("data", "env", ".env"))
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(viper.New(), file)
		if err != nil {
			return err
		}
		cfg = c
		logger.Setup(c.Log.Level, c.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./observation-processor.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
