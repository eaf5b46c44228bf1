package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
)

// shopctl diag
func diagCmd() *cobra.Command {
	var addr string
	var noSweep bool
	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Serve /healthz and /metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = config.DiagAddr()
			}
			k, err := boot(ctx)
			if err != nil {
				return err
			}
			defer k.Close()

			if !noSweep {
				sctx, stop := context.WithCancel(ctx)
				s := maintenance(k, config.CartPruneInterval(), config.CartRetention())
				s.Start(sctx)
				defer s.Wait()
				defer stop()
				for _, job := range s.Jobs() {
					fmt.Fprintf(cmd.OutOrStdout(), "scheduled %s\n", job)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "diagnostics on http://%s (Ctrl+C to stop)\n", addr)
			return server.Serve(ctx, addr, server.Handler(k, k.Repos))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default DIAG_ADDR)")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "do not prune stale cart lines while serving")
	return cmd
}

// maintenance schedules the housekeeping jobs of a long-running process.
func maintenance(k *kernel.Kernel, every, retention time.Duration, opts ...schedule.Option) *schedule.Scheduler {
	s := schedule.New(logger.L, opts...)
	s.Every(every).Name("cart:prune").WithoutOverlapping().Run(func(ctx context.Context) error {
		n, err := k.Repos.Cart.PruneOlderThan(ctx, time.Now(), retention).Wait(ctx)
		if err == nil && n > 0 {
			logger.L.Info("pruned stale cart lines", "removed", n)
		}
		return err
	})
	return s
}
