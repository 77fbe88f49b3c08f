package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the clawctl config file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configPath returns --config or the default location.
func (c *CLI) configPath() (string, error) {
	if c.flags.configPath != "" {
		return c.flags.configPath, nil
	}
	return config.Path()
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configView is the structured form of the effective configuration. Secrets
// are reduced to whether they are set.
type configView struct {
	Path            string        `json:"path"`
	Config          config.Config `json:"config"`
	PrivateKeySet   bool          `json:"privateKeySet"`
	MoltenAPIKeySet bool          `json:"moltenApiKeySet"`
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets are never shown)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			view := configView{
				Path:            path,
				Config:          cfg,
				PrivateKeySet:   cfg.PrivateKey != "",
				MoltenAPIKeySet: cfg.MoltenAPIKey != "",
			}
			if c.structured() {
				return writeStructured(cmd.OutOrStdout(), c.flags.output, view)
			}

			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprintf(out, "# %s: %s\n", config.EnvPrivateKey, setOrUnset(view.PrivateKeySet))
			fmt.Fprintf(out, "# %s: %s\n\n", config.EnvMoltenAPIKey, setOrUnset(view.MoltenAPIKeySet))
			_, err = out.Write(data)
			return err
		},
	}
}

func setOrUnset(ok bool) string {
	if ok {
		return "set"
	}
	return "not set"
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("Wrote %s", path)
			p.nextStep("Edit", "$EDITOR "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
