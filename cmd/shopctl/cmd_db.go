package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
)

// shopctl migrate
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Build the schema, recreating it when the version changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			res := k.Migration
			switch {
			case res.FirstBuild:
				fmt.Fprintf(cmd.OutOrStdout(), "schema built at version %d\n", res.To)
			case res.Recreated:
				fmt.Fprintf(cmd.OutOrStdout(), "schema recreated: version %d -> %d\n", res.From, res.To)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "schema up to date at version %d\n", res.To)
			}
			return nil
		},
	}
}

// shopctl migrate:fresh
func migrateFreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:fresh",
		Short: "Drop and recreate every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := migration.New(db, config.SchemaVersion()).Fresh(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema recreated")
			return nil
		},
	}
}

// shopctl migrate:status
func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the recorded schema version and table presence",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect()
			if err != nil {
				return err
			}
			defer database.Close(db)

			st, err := migration.New(db, config.SchemaVersion()).Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.Recorded {
				fmt.Fprintf(out, "version %d (expected %d), applied %s\n", st.Version, st.Expected, st.AppliedAt.Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintf(out, "no schema recorded (expected %d)\n", st.Expected)
			}

			names := make([]string, 0, len(st.Tables))
			for name := range st.Tables {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				mark := "missing"
				if st.Tables[name] {
					mark = "ok"
				}
				fmt.Fprintf(out, "  %-14s %s\n", name, mark)
			}
			return nil
		},
	}
}

// shopctl seed
func seedCmd() *cobra.Command {
	var flavor string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalogue into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flavor == "" {
				flavor = config.StoreFlavor()
			}
			k, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			res, err := seeders.Seed(cmd.Context(), k.Repos, flavor)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "store already has products, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories and %d products (%s)\n", res.Categories, res.Products, flavor)
			return nil
		},
	}
	cmd.Flags().StringVar(&flavor, "flavor", "", "product line: computer or cosmetics (default STORE_FLAVOR)")
	return cmd
}
