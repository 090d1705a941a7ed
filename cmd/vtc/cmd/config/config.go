package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"videotextcut/cmd/vtc/cmd/shared"
	appconfig "videotextcut/internal/app/config"
)

var force bool

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := shared.ConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			path = appconfig.GetDefaultConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		if err := appconfig.Save(appconfig.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := shared.LoadConfig()
		if err != nil {
			return err
		}
		cfg.OpenAI.APIKey = mask(cfg.OpenAI.APIKey)

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func mask(secret string) string {
	if len(secret) <= 8 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:3] + "****" + secret[len(secret)-4:]
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}
