package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "chainserve",
	Short: "chainserve - host a chain behind an HTTP, websocket, or gRPC endpoint",
	Long: `chainserve wraps a declaratively configured chain in a serving executor
and exposes its run operation on a local address. The chain itself (prompt
templating and model invocation) is delegated to the eino framework; this
tool only provides the serving shim around it.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "chain.yaml", "path to the chain config file")

	viper.SetEnvPrefix("CHAINSERVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}
