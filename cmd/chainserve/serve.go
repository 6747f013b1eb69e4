package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rchudinov/chainserve/pkg/chain"
	"github.com/rchudinov/chainserve/pkg/config"
	"github.com/rchudinov/chainserve/pkg/executor"
	"github.com/rchudinov/chainserve/pkg/flow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the configured chain on a local address until interrupted",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", flow.DefaultPort, "port to bind")
	serveCmd.Flags().String("protocol", string(flow.HTTP), "serving protocol: http, websocket, or grpc")
	serveCmd.Flags().Bool("capture-stdout", false, "record handler stdout into response envelopes")
	_ = viper.BindPFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	cfg := config.Load()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	exec, err := buildExecutor(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []flow.Option{
		flow.WithPort(viper.GetInt("port")),
		flow.WithLogger(log),
	}
	if cfg.AuthSecret != "" {
		opts = append(opts, flow.WithAuth(cfg.AuthSecret, cfg.AuthIssuer))
	}
	if viper.GetBool("capture-stdout") {
		opts = append(opts, flow.WithStdoutCapture())
	}

	var host *flow.Host
	switch proto := flow.Protocol(viper.GetString("protocol")); proto {
	case flow.HTTP:
		host, err = flow.ServeHTTP(ctx, exec, opts...)
	case flow.WebSocket:
		host, err = flow.ServeWebSocket(ctx, exec, opts...)
	case flow.GRPC:
		host, err = flow.ServeGRPC(ctx, exec, opts...)
	default:
		return fmt.Errorf("unknown protocol %q", proto)
	}
	if err != nil {
		return err
	}
	defer host.Close()

	log.WithField("url", host.URL()).Info("serving")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	return host.Close()
}

func buildExecutor(ctx context.Context, cfg config.Config) (*executor.Executor, error) {
	path := viper.GetString("config")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chain config: %w", err)
	}
	chainCfg, err := chain.ParseConfig(data)
	if err != nil {
		return nil, err
	}
	chainCfg.Model = cfg.ModelDefaults(chainCfg.Model)
	return executor.FromConfig(ctx, chainCfg)
}
