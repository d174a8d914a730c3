package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/credentials"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/config"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/database"
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored Kasa cloud credentials",
		Long: `Manages the Kasa cloud account credentials the server passes to
the device backend. Credentials are stored in the server's local
database; the server picks them up on its next start.`,
	}

	cmd.AddCommand(newCredentialsSetCmd())
	cmd.AddCommand(newCredentialsShowCmd())
	cmd.AddCommand(newCredentialsClearCmd())
	return cmd
}

// openStore opens the credential store from the configured database.
func openStore(ctx context.Context) (*credentials.Store, func(), error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closeDB := func() { db.Close() }

	store, err := credentials.NewStore(ctx, db)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("opening credential store: %w", err)
	}
	return store, closeDB, nil
}

func newCredentialsSetCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store Kasa cloud account credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("both --email and --password are required")
			}

			store, closeDB, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := store.SetCloudAccount(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("storing credentials: %w", err)
			}
			cmd.Println("credentials stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Kasa cloud account email")
	cmd.Flags().StringVar(&password, "password", "", "Kasa cloud account password")
	return cmd
}

func newCredentialsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored cloud account email",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			email, _, err := store.CloudAccount(cmd.Context())
			if errors.Is(err, credentials.ErrNotFound) {
				cmd.Println("no credentials stored")
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading credentials: %w", err)
			}

			// The password is never printed
			cmd.Printf("email: %s\n", email)
			return nil
		},
	}
}

func newCredentialsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored cloud account credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			if err := store.Delete(ctx, credentials.Service, credentials.KeyEmail); err != nil {
				return fmt.Errorf("removing credentials: %w", err)
			}
			if err := store.Delete(ctx, credentials.Service, credentials.KeyPassword); err != nil {
				return fmt.Errorf("removing credentials: %w", err)
			}
			cmd.Println("credentials removed")
			return nil
		},
	}
}
