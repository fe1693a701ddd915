package cli

import (
	"doe_backend/internal/app"
	"doe_backend/internal/config"
	"doe_backend/pkg/logger"

	"github.com/spf13/cobra"
)

func newServeCmd(configDir *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}
			// release 模式下也强制迁移
			cfg.ForceMigrate = migrate

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			return application.Run()
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations on startup even in release mode")
	return cmd
}
