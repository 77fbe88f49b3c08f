package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/internal/config"
	"github.com/clawnch/clawctl/pkg/buildinfo"
	"github.com/clawnch/clawctl/pkg/cache"
	"github.com/clawnch/clawctl/pkg/clawnch"
	"github.com/clawnch/clawctl/pkg/history"
	"github.com/clawnch/clawctl/pkg/observability"
	"github.com/clawnch/clawctl/pkg/onchain"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "clawctl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags   rootFlags
	metrics *observability.PrometheusHooks

	// backend replaces the RPC connection; set by tests.
	backend onchain.Backend
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	output      string
	configPath  string
	baseURL     string
	rpcURL      string
	noCache     bool
	metricsFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Interact with the Clawnch ecosystem from your terminal",
		Long: `clawctl talks to the Clawnch token-launch platform and to Base.

Browse launches and stats, build and submit !clawnch launch posts, check and
claim trading fees, burn $CLAWNCH for a dev allocation, and find partner
agents on the Molten network.

Chain writes need PRIVATE_KEY in the environment. Molten commands other
than register need MOLTEN_API_KEY.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(c.flags.output); err != nil {
				return err
			}
			if c.flags.metricsFile != "" && c.metrics == nil {
				c.metrics = observability.NewPrometheusHooks()
				observability.SetHTTPHooks(c.metrics)
				observability.SetCacheHooks(c.metrics)
				observability.SetChainHooks(c.metrics)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.output, "output", "o", formatText, "output format: text, json or yaml")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/clawctl/config.toml)")
	pf.StringVar(&c.flags.baseURL, "base-url", "", "Clawnch API base URL (overrides config and "+config.EnvBaseURL+")")
	pf.StringVar(&c.flags.rpcURL, "rpc-url", "", "Base JSON-RPC URL (overrides config and "+config.EnvRPCURL+")")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the response cache")
	pf.StringVar(&c.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.tokensCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.uploadCommand())
	root.AddCommand(c.launchCommand())
	root.AddCommand(c.rateLimitCommand())
	root.AddCommand(c.feesCommand())
	root.AddCommand(c.burnCommand())
	root.AddCommand(c.walletCommand())
	root.AddCommand(c.moltenCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// WriteMetrics writes collected metrics to --metrics-file, if one was given.
// It is called once after the command finishes, whether or not it failed.
func (c *CLI) WriteMetrics() error {
	if c.metrics == nil || c.flags.metricsFile == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.flags.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return cfg, err
	}
	if c.flags.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(c.flags.baseURL, "/")
	}
	if c.flags.rpcURL != "" {
		cfg.RPCURL = c.flags.rpcURL
	}
	if c.flags.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, cfg.Validate()
}

// newClient builds a facade client from the effective configuration. The
// returned cleanup closes the client, cache and history store.
func (c *CLI) newClient(ctx context.Context) (*clawnch.Client, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := loggerFromContext(ctx)

	cch, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := newHistory(ctx, cfg.History)
	if err != nil {
		cch.Close()
		return nil, nil, err
	}

	client, err := clawnch.New(ctx, clawnch.Config{
		BaseURL:           cfg.BaseURL,
		RPCURL:            cfg.RPCURL,
		ChainID:           cfg.ChainID,
		PrivateKey:        cfg.PrivateKey,
		MoltenAPIKey:      cfg.MoltenAPIKey,
		Timeout:           cfg.Timeout.Duration,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Cache:             cch,
		CacheTTL:          cfg.Cache.TTL.Duration,
		History:           store,
		Logger:            logger,
		Backend:           c.backend,
	})
	if err != nil {
		store.Close()
		cch.Close()
		return nil, nil, err
	}

	cleanup := func() {
		client.Close()
		if err := store.Close(); err != nil {
			logger.Debug("close history", "error", err)
		}
		if err := cch.Close(); err != nil {
			logger.Debug("close cache", "error", err)
		}
	}
	return client, cleanup, nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be determined degrades to no cache.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newHistory opens the configured history store.
func newHistory(ctx context.Context, hc config.HistoryConfig) (history.Store, error) {
	switch hc.Backend {
	case config.BackendNone:
		return history.NewNullStore(), nil
	case config.BackendMongo:
		return history.NewMongoStore(ctx, hc.MongoURI, hc.MongoDatabase)
	}
	return history.NewFileStore(hc.Path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/clawctl/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return filepath.Clean(cfg.Cache.Dir), nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Output Helpers
// =============================================================================

// structured reports whether --output asks for JSON or YAML.
func (c *CLI) structured() bool {
	return c.flags.output == formatJSON || c.flags.output == formatYAML
}

// render writes v in the structured format, or calls text otherwise.
func (c *CLI) render(cmd *cobra.Command, v any, text func(p *printer)) error {
	if c.structured() {
		return writeStructured(cmd.OutOrStdout(), c.flags.output, v)
	}
	text(newPrinter(cmd.OutOrStdout()))
	return nil
}

// spin starts a spinner on stderr tied to the command's context.
func (c *CLI) spin(cmd *cobra.Command, message string) *Spinner {
	return startSpinner(cmd.Context(), cmd.ErrOrStderr(), message)
}
