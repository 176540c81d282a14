package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sklad/app/services"
	"github.com/shashiranjanraj/sklad/config"
	"github.com/shashiranjanraj/sklad/pkg/database"
)

// sklad attempts:sweep — delete login attempts older than the window.
// The server runs the same sweep on an interval; this command exists for
// cron setups and manual cleanup.
var sweepCmd = &cobra.Command{
	Use:   "attempts:sweep",
	Short: "Delete login attempts older than the rate-limit window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		limiter := services.NewLoginLimiter(database.DB,
			config.LoginMaxAttempts(), config.LoginWindowMinutes())
		n, err := limiter.Sweep(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d stale login attempts\n", n)
		return nil
	},
}
