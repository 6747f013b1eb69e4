package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rchudinov/chainserve/pkg/config"
	"github.com/rchudinov/chainserve/pkg/security/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token [subject]",
	Short: "Mint a bearer token for the configured auth secret",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.AuthSecret == "" {
		return errors.New("AUTH_SECRET is not set")
	}
	subject := "client"
	if len(args) == 1 {
		subject = args[0]
	}
	ttl, _ := cmd.Flags().GetDuration("ttl")
	token, err := jwt.NewGenerator(cfg.AuthSecret, cfg.AuthIssuer, ttl).Generate(subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
