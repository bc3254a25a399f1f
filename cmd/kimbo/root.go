package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kimbo/internal/cli"
	"kimbo/internal/country"
	"kimbo/internal/face"
	"kimbo/internal/ingest"
	"kimbo/internal/server/backend"
	"kimbo/internal/server/config"
	"kimbo/internal/server/service"
	"kimbo/internal/server/storage"
)

const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
	FlagDir      = "dir"
	FlagWidth    = "width"
	FlagUser     = "user"
	FlagAddress  = "address"
	FlagLang     = "lang"

	DefaultLogLevel = "info"
	DefaultAddress  = "127.0.0.1"
)

// RootCmd creates the kimbo command tree.
func RootCmd() *cobra.Command {
	r := &cobra.Command{
		Use:          "kimbo",
		Short:        "kimbo stores patient uploads and tracks daily upload quotas.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString(FlagConfig); path != "" {
				os.Setenv("CONFIG_PATH", path)
			}
			level, _ := cmd.Flags().GetString(FlagLogLevel)
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", level, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
			return nil
		},
	}

	r.PersistentFlags().String(FlagConfig, "", "path to a YAML config file (default: $CONFIG_PATH)")
	r.PersistentFlags().String(FlagLogLevel, DefaultLogLevel, "log level. debug|info|warn|error")

	r.AddCommand(
		SaveCmd(),
		QuotaCmd(),
		FacesCmd(),
		CountryCmd(),
		ConfigCmd(),
	)
	return r
}

// loadConfig defaults the CLI to the pebble counter store so the ledger
// outlives a single invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.WithDefault("counter_store", config.StorePebble))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openService wires the same upload service the HTTP server uses.
func openService(ctx context.Context, cfg *config.Config) (*service.UploadService, io.Closer, error) {
	store := storage.NewFileSystemStore(cfg.StoragePath)
	if err := store.EnsureDir(); err != nil {
		return nil, nil, err
	}
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open counter store: %w", err)
	}
	pipeline := ingest.New(store, ingest.WithDefaultDirectory(cfg.UploadDirectory))
	return service.NewUploadService(b.Ledger(cfg), pipeline, cfg), b, nil
}

func SaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <files or directories>...",
		Short: "Store files under their content hash and charge them to the daily quota",
		Example: `  kimbo save scan.jpg report.pdf --user u-42
  kimbo save ./exports --dir archive --width 800`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := cli.ParseArgs(args)
			if err != nil {
				return err
			}
			files, err := cli.ExpandFiles(parsed)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString(FlagDir); dir != "" {
				cfg.UploadDirectory = dir
			}
			width, _ := cmd.Flags().GetInt(FlagWidth)
			user, _ := cmd.Flags().GetString(FlagUser)
			address, _ := cmd.Flags().GetString(FlagAddress)

			svc, closer, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			out := cmd.OutOrStdout()
			for _, path := range files {
				stored, err := saveFile(cmd.Context(), svc, path, service.UploadRequest{
					UserID:     user,
					Address:    address,
					ImageWidth: width,
				})
				if err != nil {
					return fmt.Errorf("failed to save %s: %w", path, err)
				}
				fmt.Fprintf(out, "✓ %s -> %s\n", path, stored.Path)
			}
			return nil
		},
	}

	cmd.Flags().String(FlagDir, "", "target directory inside storage (default: upload_directory)")
	cmd.Flags().Int(FlagWidth, 0, "resize images wider than this many pixels (default: image_width)")
	cmd.Flags().String(FlagUser, "", "user the upload is charged to")
	cmd.Flags().String(FlagAddress, DefaultAddress, "address the upload is charged to")
	return cmd
}

func saveFile(ctx context.Context, svc *service.UploadService, path string, req service.UploadRequest) (*ingest.StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	req.Content = f
	req.Filename = info.Name()
	req.Size = info.Size()
	return svc.ProcessUpload(ctx, req)
}

func QuotaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show today's upload usage for a user and address",
		Long: `Show today's upload usage for a user and address.

Usage is read from the configured counter store (pebble at pebble_path by
default). With counter_store set to memory every invocation starts from zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			user, _ := cmd.Flags().GetString(FlagUser)
			address, _ := cmd.Flags().GetString(FlagAddress)

			svc, closer, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			usage, err := svc.Usage(cmd.Context(), user, address)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), usage)
		},
	}

	cmd.Flags().String(FlagUser, "", "user to report on")
	cmd.Flags().String(FlagAddress, DefaultAddress, "address to report on")
	return cmd
}

func FacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faces",
		Short: "Talk to the face comparison service",
	}

	compare := &cobra.Command{
		Use:     "compare <image1> <image2>",
		Short:   "Compare the faces in two images",
		Example: `  kimbo faces compare id-card.jpg selfie.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path1, path2, err := cli.ParseImagePair(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.FaceServiceURL == "" {
				return fmt.Errorf("%w: face_service_url is not set", config.ErrInvalidConfig)
			}

			client, err := face.New(cfg.FaceServiceURL, face.WithTimeout(cfg.FaceTimeout))
			if err != nil {
				return err
			}
			result, err := client.CompareFiles(cmd.Context(), path1, path2)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.AddCommand(compare)
	return cmd
}

func CountryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "country <code>",
		Short:   "Translate an ISO 3166-1 alpha-2 code to a country name",
		Example: `  kimbo country CM --lang fr`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _ := cmd.Flags().GetString(FlagLang)
			name, err := country.Translate(args[0], lang)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().String(FlagLang, country.English, "output language. en|fr")
	return cmd
}

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML, secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.WithDefault("counter_store", config.StorePebble))
			if err != nil {
				return err
			}
			data, err := cfg.Export()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(show)
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
