package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ducat-dev/ducat/internal/duck"
	"github.com/ducat-dev/ducat/internal/objectstore"
)

var restoreOverwrite bool

// restoreCmd downloads the latest backup and imports it into the database.
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the database from S3-compatible storage",
	Long: `Download the exported database folder from the configured bucket and
import it. Refuses to touch an existing database file unless --overwrite is
given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		return restoreAction(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	registerObjectStoreFlags(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreOverwrite, "overwrite", false, "Replace an existing database file")
}

func restoreAction(ctx context.Context) error {
	backups, err := objectstore.New(objectStoreConfig())
	if err != nil {
		return err
	}

	db := viper.GetString("db")
	if _, err := os.Stat(db); err == nil {
		if !restoreOverwrite {
			return fmt.Errorf("database %s already exists (use --overwrite to replace it)", db)
		}
		if err := os.Remove(db); err != nil {
			return fmt.Errorf("removing existing database: %w", err)
		}
		slog.Info("removed existing database", "db", db)
	}

	tmp, err := os.MkdirTemp("", "ducat-restore-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.RemoveAll(tmp) // Best-effort cleanup
	}()

	if err := backups.DownloadDir(ctx, tmp); err != nil {
		return err
	}

	store, err := duck.Open(db)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close() // Best-effort cleanup
	}()

	if err := store.Import(ctx, tmp); err != nil {
		return err
	}
	slog.Info("restore complete", "db", db)
	return nil
}
