// Command kodo is a CLI client for the storage service, bundling the
// original SDK's demo/*.c binaries (qstat, qcopy, qmove, qdelete,
// qputfb, qrputf, qregion, qbatch_stat, qeputf) into one binary with one
// subcommand apiece.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bluntblade/kodo-go/internal/config"
	"github.com/bluntblade/kodo-go/kodo"
	"github.com/bluntblade/kodo-go/region"
	"github.com/bluntblade/kodo-go/sign"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd.
var (
	flagConfigPath string
	flagProfile    string
	flagAccessKey  string
	flagSecretKey  string
	flagBucket     string
	flagJSON       bool
	flagVerbose    bool
	flagDebug      bool
	flagQuiet      bool
)

// skipConfigAnnotation marks commands that handle configuration
// themselves (currently just "configure", which runs before a profile
// necessarily exists).
const skipConfigAnnotation = "skipConfig"

// CLIContext bundles the resolved profile, logger, and a Client built
// from them. Created once in PersistentPreRunE so RunE handlers never
// re-resolve configuration or re-dial region discovery.
type CLIContext struct {
	Profile *config.ResolvedProfile
	Logger  *slog.Logger
	Client  *kodo.Client
	cache   *region.Cache
}

type cliContextKey struct{}

func cliContextFrom(ctx context.Context) *CLIContext {
	cc, _ := ctx.Value(cliContextKey{}).(*CLIContext)
	return cc
}

func mustCLIContext(ctx context.Context) *CLIContext {
	cc := cliContextFrom(ctx)
	if cc == nil {
		panic("BUG: CLIContext not found in context (PersistentPreRunE did not run, or this command carries skipConfigAnnotation and should not call mustCLIContext)")
	}
	return cc
}

const httpClientTimeout = 30 * time.Second

// defaultHTTPClient bounds administrative calls (stat, copy, move,
// delete, list, batch, region) to a fixed timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// transferHTTPClient carries no timeout of its own: an upload's
// duration is bounded by file size, not a fixed budget, so cancellation
// is left to the command's context instead.
func transferHTTPClient() *http.Client {
	return &http.Client{}
}

// newKodoClient builds a Client authenticated against rp. Its region
// table starts empty; loadConfig seeds it from the region cache
// afterwards and saveRegionCache persists it when the command ends.
func newKodoClient(rp *config.ResolvedProfile, httpClient *http.Client, logger *slog.Logger) *kodo.Client {
	creds := sign.Credentials{AccessKey: rp.AccessKey, SecretKey: rp.SecretKey}

	opts := []kodo.Option{
		kodo.WithLogger(logger),
		kodo.WithHTTPClient(httpClient),
	}
	if rp.Network.DiscoveryBaseURL != "" {
		opts = append(opts, kodo.WithDiscoveryBaseURL(rp.Network.DiscoveryBaseURL))
	}

	return kodo.NewClient(creds, opts...)
}

// newRootCmd builds and returns the fully-assembled root command with
// all subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kodo",
		Short:   "Storage CLI client",
		Long:    "A CLI client for the Qiniu-style object storage service.",
		Version: version,
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}

			return loadConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}

			return saveRegionCache(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "named profile to use")
	cmd.PersistentFlags().StringVar(&flagAccessKey, "access-key", "", "access key (overrides profile/env)")
	cmd.PersistentFlags().StringVar(&flagSecretKey, "secret-key", "", "secret key (overrides profile/env)")
	cmd.PersistentFlags().StringVar(&flagBucket, "bucket", "", "bucket (overrides profile/env)")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show detailed output")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging (HTTP requests, config resolution)")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.MarkFlagsMutuallyExclusive("verbose", "debug", "quiet")

	cmd.AddCommand(newConfigureCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatCmd())
	cmd.AddCommand(newCpCmd())
	cmd.AddCommand(newMvCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newBatchStatCmd())
	cmd.AddCommand(newRegionCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newPutFileCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer
// override chain, opens the region cache, and builds the CLIContext
// every non-exempt command runs against.
func loadConfig(cmd *cobra.Command) error {
	logger := buildLogger(nil)

	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
		Profile:    flagProfile,
		AccessKey:  flagAccessKey,
		SecretKey:  flagSecretKey,
		Bucket:     flagBucket,
	}
	env := config.ReadEnvOverrides()

	logger.Debug("resolving config",
		slog.String("config_path", cli.ConfigPath),
		slog.String("cli_profile", cli.Profile),
		slog.String("env_config", env.ConfigPath),
		slog.String("env_profile", env.Profile),
	)

	resolved, err := config.Resolve(env, cli, logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Debug("config resolved",
		slog.String("profile", resolved.Name),
		slog.String("bucket", resolved.Bucket),
		slog.String("cache_dir", resolved.CacheDir),
	)

	finalLogger := buildLogger(resolved)

	httpClient := defaultHTTPClient()
	if isTransferCommand(cmd) {
		httpClient = transferHTTPClient()
	}

	client := newKodoClient(resolved, httpClient, finalLogger)

	cache, err := openRegionCache(cmd.Context(), resolved, finalLogger)
	if err == nil {
		seedRegionTable(cmd.Context(), client, cache, resolved.Bucket, finalLogger)
	}

	cc := &CLIContext{Profile: resolved, Logger: finalLogger, Client: client, cache: cache}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

	return nil
}

// isTransferCommand reports whether cmd is one of the upload
// subcommands, which need the unbounded transferHTTPClient instead of
// defaultHTTPClient's fixed timeout.
func isTransferCommand(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "put", "putfile":
		return true
	default:
		return false
	}
}

// openRegionCache opens the SQLite-backed region cache under the
// resolved profile's cache directory. A failure to open is logged and
// treated as "no cache available" rather than aborting the command: the
// cache is a persistence convenience, not a correctness requirement.
func openRegionCache(ctx context.Context, rp *config.ResolvedProfile, logger *slog.Logger) (*region.Cache, error) {
	path := filepath.Join(rp.CacheDir, "regions.db")

	if err := os.MkdirAll(rp.CacheDir, 0o700); err != nil {
		logger.Warn("kodo: could not create cache directory", "dir", rp.CacheDir, "error", err)
		return nil, err
	}

	cache, err := region.OpenCache(ctx, path)
	if err != nil {
		logger.Warn("kodo: region cache unavailable, discovery will not persist across runs", "error", err)
		return nil, err
	}

	return cache, nil
}

// seedRegionTable loads bucket's cached region (if any) into client's
// Table before the first request, avoiding a discovery round trip on
// every invocation the way the original SDK's region table avoids it
// for every call within one long-lived process.
func seedRegionTable(ctx context.Context, client *kodo.Client, cache *region.Cache, bucket string, logger *slog.Logger) {
	if cache == nil || bucket == "" {
		return
	}

	rgn, err := cache.Load(ctx, bucket)
	if err != nil {
		return
	}

	client.Table().Set(bucket, time.Hour, rgn)
	logger.Debug("kodo: seeded region table from cache", "bucket", bucket)
}

// saveRegionCache persists any region the command run discovered back
// to the cache, so the next invocation can skip discovery entirely.
func saveRegionCache(cmd *cobra.Command) error {
	cc := cliContextFrom(cmd.Context())
	if cc == nil || cc.cache == nil {
		return nil
	}
	defer cc.cache.Close()

	cc.Client.Table().ForEach(func(name string, rgn *region.Region) bool {
		if err := cc.cache.Save(cmd.Context(), name, time.Hour, rgn); err != nil {
			cc.Logger.Warn("kodo: failed to persist region cache", "bucket", name, "error", err)
		}
		return true
	})

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved
// profile and CLI flags. Pass nil for pre-config bootstrap (no
// config-file log level available yet). Config-file log level provides
// the baseline; --verbose, --debug, and --quiet override it because CLI
// flags always win (the three are mutually exclusive, enforced by
// Cobra).
func buildLogger(rp *config.ResolvedProfile) *slog.Logger {
	level := slog.LevelWarn

	if rp != nil {
		switch rp.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelInfo
	}
	if flagDebug {
		level = slog.LevelDebug
	}
	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
