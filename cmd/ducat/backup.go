package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ducat-dev/ducat/internal/duck"
	"github.com/ducat-dev/ducat/internal/objectstore"
)

// backupCmd exports the database and uploads it to the object store.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the database to S3-compatible storage",
	Long: `Export the whole database to parquet and upload the export folder
to the configured bucket under the configured prefix. Credentials come from
flags, the config file, or DUCAT_S3_* environment variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		return backupAction(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	registerObjectStoreFlags(backupCmd)
}

// registerObjectStoreFlags declares the shared S3 flags on a command. The
// flags reach viper through bindFlags when the command runs.
func registerObjectStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "ducat.duckdb", "Path to the DuckDB database file")
	cmd.Flags().String("s3-endpoint", "localhost:9000", "Object store endpoint (host:port, no scheme)")
	cmd.Flags().String("s3-access-key", "", "Object store access key")
	cmd.Flags().String("s3-secret-key", "", "Object store secret key")
	cmd.Flags().String("s3-region", "us-east-1", "Object store region")
	cmd.Flags().String("s3-bucket", "", "Bucket for backups")
	cmd.Flags().String("s3-prefix", "db", "Object key prefix for the database folder")
	cmd.Flags().Bool("s3-ssl", false, "Use TLS for the object store connection")
}

func objectStoreConfig() objectstore.Config {
	return objectstore.Config{
		Endpoint:  viper.GetString("s3-endpoint"),
		AccessKey: viper.GetString("s3-access-key"),
		SecretKey: viper.GetString("s3-secret-key"),
		Region:    viper.GetString("s3-region"),
		Bucket:    viper.GetString("s3-bucket"),
		Prefix:    viper.GetString("s3-prefix"),
		UseSSL:    viper.GetBool("s3-ssl"),
	}
}

func backupAction(ctx context.Context) error {
	backups, err := objectstore.New(objectStoreConfig())
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", "ducat-backup-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.RemoveAll(tmp) // Best-effort cleanup
	}()

	db := viper.GetString("db")
	store, err := duck.Open(db)
	if err != nil {
		return err
	}
	if err := store.Export(ctx, tmp); err != nil {
		_ = store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	if err := backups.EnsureBucket(ctx); err != nil {
		return err
	}
	if err := backups.UploadDir(ctx, tmp); err != nil {
		return err
	}
	slog.Info("backup complete", "db", db)
	return nil
}
