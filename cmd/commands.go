package main

import (
	"fmt"

	"lesson-booking/cmd/bootstrap"
	"lesson-booking/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the notification scheduler when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New(cmd.Context())
			if err != nil {
				return err
			}

			if migrateUp {
				if err := database.MigrateUp(app.DB); err != nil {
					app.Close()
					return err
				}
			}

			return app.Run()
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Load()
			if err != nil {
				return err
			}
			defer app.Close()

			return database.MigrateUp(app.DB)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Load()
			if err != nil {
				return err
			}
			defer app.Close()

			return database.MigrateDown(app.DB, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default provider with a weekly schedule and lesson types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Load()
			if err != nil {
				return err
			}
			defer app.Close()

			provider, created, err := app.SeedUsecase().SeedProvider(cmd.Context(), app.Config.Seed)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created provider %s (%s)\n", provider.ID, provider.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Provider %s already exists, nothing to do\n", provider.Email)
			}
			return nil
		},
	}
}

func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send due reminders and post-session messages once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Load()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.NotificationUsecase().Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reminders_24h=%d reminders_1h=%d post_session=%d failed=%d\n",
				result.Reminders24h, result.Reminders1h, result.PostSession, result.Failed)
			return nil
		},
	}
}
