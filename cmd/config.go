// file: cmd/config.go
// version: 1.0.0
// guid: 4a9c2e7b-0d15-4f38-b6e2-9f1a7c3d5b80

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Show or write the effective configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			printSettings(cmd.OutOrStdout(), config.Settings())
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective settings to a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFilePath()
			if len(args) == 1 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			secrets, _ := cmd.Flags().GetBool("secrets")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := config.Validate(config.AppConfig); err != nil {
				return err
			}
			if err := config.SaveConfigToFile(path, secrets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
)

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configInitCmd.Flags().Bool("secrets", false, "include the records and API tokens")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func printSettings(w io.Writer, settings map[string]any) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-24s %v\n", k, settings[k])
	}
}
