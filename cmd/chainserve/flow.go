package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rchudinov/chainserve/pkg/flow"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print the flow document for the configured chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		proto, _ := cmd.Flags().GetString("protocol")
		doc := flow.DocumentFor(viper.GetString("config"), port, flow.Protocol(proto))
		out, err := doc.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	flowCmd.Flags().Int("port", flow.DefaultPort, "port the flow binds")
	flowCmd.Flags().String("protocol", string(flow.HTTP), "serving protocol")
	rootCmd.AddCommand(flowCmd)
}
