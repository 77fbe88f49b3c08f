package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/internal/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the token and stats response cache",
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand())
	return cmd
}

// cacheInfo describes where responses are cached.
type cacheInfo struct {
	Backend  string `json:"backend"`
	Location string `json:"location,omitempty"`
	TTL      string `json:"ttl"`
}

func (c *CLI) describeCache(cfg config.Config) (cacheInfo, error) {
	info := cacheInfo{Backend: cfg.Cache.Backend, TTL: cfg.Cache.TTL.String()}
	switch cfg.Cache.Backend {
	case config.BackendNone:
	case config.BackendRedis:
		info.Location = redactURL(cfg.Cache.RedisURL)
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return info, fmt.Errorf("locate cache directory: %w", err)
		}
		info.Location = dir
	}
	return info, nil
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Aliases: []string{"path"},
		Short:   "Show the cache backend and where it stores entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			info, err := c.describeCache(cfg)
			if err != nil {
				return err
			}
			return c.render(cmd, info, func(p *printer) {
				p.keyValue("Backend", info.Backend)
				if info.Location != "" {
					p.keyValue("Location", info.Location)
				}
				p.keyValue("TTL", info.TTL)
			})
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached token listing and stats response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if cfg.Cache.Backend == config.BackendNone {
				p.info("Cache is disabled")
				return nil
			}

			info, err := c.describeCache(cfg)
			if err != nil {
				return err
			}
			store, err := newCache(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", info.Backend, err)
			}
			defer store.Close()
			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("clear %s cache: %w", info.Backend, err)
			}

			p.success("Cache cleared")
			p.detail("%s: %s", info.Backend, info.Location)
			return nil
		},
	}
}

// redactURL hides any password in a connection URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable URL)"
	}
	return u.Redacted()
}
