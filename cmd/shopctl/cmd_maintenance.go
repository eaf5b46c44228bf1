package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
)

// shopctl cart:prune
func cartPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "cart:prune",
		Short: "Remove cart lines not touched within the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				olderThan = config.CartRetention()
			}
			k, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			n, err := k.Repos.Cart.PruneOlderThan(cmd.Context(), time.Now(), olderThan).Wait(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cart line(s) older than %s\n", n, olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff (default CART_RETENTION)")
	return cmd
}

// shopctl orders:purge
func ordersPurgeCmd() *cobra.Command {
	var userID uint
	cmd := &cobra.Command{
		Use:   "orders:purge",
		Short: "Delete every order of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return errors.New("--user is required")
			}
			k, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			if _, err := k.Repos.Orders.DeleteAllForUser(cmd.Context(), userID).Wait(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "orders of user %d deleted\n", userID)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "user id")
	return cmd
}

// shopctl category:path
func categoryPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category:path <id>",
		Short: "Print the breadcrumb of a category, root first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer k.Close()

			chain, err := k.Repos.Categories.PathNow(cmd.Context(), args[0]).Wait(cmd.Context())
			if err != nil {
				return err
			}
			if len(chain) == 0 {
				return fmt.Errorf("category %q not found", args[0])
			}
			names := make([]string, 0, len(chain))
			for _, c := range chain {
				names = append(names, c.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " > "))
			return nil
		},
	}
}
