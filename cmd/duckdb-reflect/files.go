package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/filestore"
	"github.com/leonardovida/duckdb-reflect/internal/filestore/minio"
)

var (
	flagPrefix     string
	flagPresign    bool
	flagPresignTTL time.Duration
)

var filesCmd = &cobra.Command{
	Use:   "files [bucket]",
	Short: "List stageable data files in object storage",
	Long: "files lists Parquet, CSV, JSON, and DuckDB files in the configured\n" +
		"object store. With --presign it also prints a time-limited URL and the\n" +
		"SQL that reads the file.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		ctx := cmd.Context()

		if cfg.Storage.Endpoint == "" {
			return errs.New(errs.ErrKindInvalidInput, "no storage endpoint configured")
		}

		store, err := minio.New(ctx, &filestore.Config{
			Provider:      filestore.ProviderMinIO,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			UseSSL:        cfg.Storage.UseSSL,
			DefaultBucket: cfg.Storage.Bucket,
		})
		if err != nil {
			return err
		}
		defer store.Close()
		log.Debug("storage connected")

		bucket := cfg.Storage.Bucket
		if len(args) == 1 {
			bucket = args[0]
		}
		if bucket == "" {
			buckets, err := store.ListBuckets(ctx)
			if err != nil {
				return err
			}
			for _, b := range buckets {
				cmd.Println(b.Name)
			}
			return nil
		}

		files, err := store.ListDataFiles(ctx, bucket, filestore.ListOptions{
			Prefix:    flagPrefix,
			Recursive: true,
		})
		if err != nil {
			return err
		}

		for _, f := range files {
			cmd.Printf("%-10s %10d  %s\n", f.Format, f.Size, f.Key)
			if !flagPresign {
				continue
			}
			url, err := store.PresignGetURL(ctx, bucket, f.Key, flagPresignTTL)
			if err != nil {
				return err
			}
			if expr, ok := f.ReadExpression(url); ok {
				cmd.Printf("           %s\n", expr)
			}
		}
		return nil
	},
}

func init() {
	filesCmd.Flags().StringVar(&flagPrefix, "prefix", "", "only list keys under this prefix")
	filesCmd.Flags().BoolVar(&flagPresign, "presign", false, "print presigned URLs and read SQL")
	filesCmd.Flags().DurationVar(&flagPresignTTL, "presign-ttl", 15*time.Minute, "lifetime of presigned URLs")
	rootCmd.AddCommand(filesCmd)
}
