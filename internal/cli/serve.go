package cli

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"marketingcoach/internal/api"
	"marketingcoach/internal/config"
	"marketingcoach/internal/observability"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP completion mediator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.BasicConfig.ServerAddress = addr
			}
			observability.Configure(os.Stdout, cfg.BasicConfig.LogLevel)

			m, store, err := buildMediator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			router := newRouter(api.NewHandler(m, store))
			observability.Logger().Info("listening", "addr", cfg.BasicConfig.ServerAddress)
			if err := router.Run(cfg.BasicConfig.ServerAddress); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config and COACH_ADDR)")
	return cmd
}

func newRouter(h *api.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), observability.RequestLogger())
	h.RegisterRoutes(router)
	return router
}
