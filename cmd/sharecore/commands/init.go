package commands

import (
	"fmt"
	"os"

	"github.com/adc-share/sharecore/internal/cli/prompt"
	"github.com/adc-share/sharecore/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a fresh config file with a newly generated CID",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetDefaultConfigPath()
		}

		force := initForce
		if !force {
			if _, err := os.Stat(path); err == nil {
				confirmed, err := prompt.Confirm(fmt.Sprintf("overwrite existing config at %s?", path), false)
				if err != nil {
					return err
				}
				if !confirmed {
					return fmt.Errorf("aborted: config already exists at %s", path)
				}
				force = true
			}
		}

		written, err := config.InitConfigToPath(path, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote config to %s\n", written)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
