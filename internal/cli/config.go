package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extractgym/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.config.Encode(c.Out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(c.Out, path)
			printKeyValue("extractor", c.config.Extractor)
			printKeyValue("mode", c.config.Mode)
			printKeyValue("cache", c.config.Cache.Backend)
			return nil
		},
	})

	return cmd
}
