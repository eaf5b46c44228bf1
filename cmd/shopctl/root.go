package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
)

var dsnFlag string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Storefront store maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if dsnFlag != "" {
				config.Set("DATABASE_DSN", dsnFlag)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "database DSN (overrides DATABASE_DSN)")

	root.AddCommand(
		migrateCmd(),
		migrateFreshCmd(),
		migrateStatusCmd(),
		seedCmd(),
		cartPruneCmd(),
		ordersPurgeCmd(),
		categoryPathCmd(),
		diagCmd(),
	)
	return root
}

// boot builds a kernel from config; callers must Close it.
func boot(ctx context.Context) (*kernel.Kernel, error) {
	return kernel.New(ctx, kernel.Options{})
}
