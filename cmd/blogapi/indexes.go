package main

import (
	"github.com/spf13/cobra"

	"github.com/inkwell/blog-api/internal/infrastructure/config"
	"github.com/inkwell/blog-api/internal/infrastructure/db/mongo"
	"github.com/inkwell/blog-api/pkg/logger"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

			client, db, err := mongo.Connect(ctx, mongo.Config{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
				Timeout:  cfg.Mongo.Timeout,
			})
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}
