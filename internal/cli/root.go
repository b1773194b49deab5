// Package cli wires the coach commands: serve runs the HTTP mediator and chat
// runs a terminal coaching session against it.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"marketingcoach/internal/config"
	"marketingcoach/internal/exchangelog"
	"marketingcoach/internal/observability"
	"marketingcoach/internal/service/ai"
	"marketingcoach/internal/service/mediator"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd creates the top-level "coach" command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "coach",
		Short:         "Marketing coach: mode-based strategy chat backed by an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("COACH_CONFIG"), "path to JSON config file")

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
	)
	return root
}

// buildMediator assembles the mediator and its exchange log from cfg. A
// missing API key is not fatal: the mediator then reports misconfiguration
// on every call.
func buildMediator(ctx context.Context, cfg *config.Config) (*mediator.Mediator, exchangelog.Store, error) {
	logger := observability.Logger()

	chatModel, err := ai.NewChatModel(ctx, cfg.Provider)
	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		logger.Warn("no provider API key configured; every request will fail", "provider", cfg.Provider.Name)
		chatModel = nil
	case err != nil:
		return nil, nil, err
	}

	store, err := exchangelog.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("mediator ready",
		"provider", cfg.Provider.Name,
		"model", cfg.Provider.Model,
		"exchange_log", cfg.ExchangeLog.Backend,
	)
	return mediator.New(chatModel, cfg.Provider, store), store, nil
}
