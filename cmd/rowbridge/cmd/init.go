package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowbridge/rowbridge/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a RowBridge configuration file",
	Long: `Create a configuration file with a generated API key and default
settings. Edit the translator section afterwards to declare the schema:

  translator:
    field.names: [a, b]
    field.types: [int, string]

Example:
  rowbridge init --config ./rowbridge.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(path) {
			return fmt.Errorf("config file %s already exists", path)
		}

		cfg, err := config.BootstrapConfig(path)
		if err != nil {
			return err
		}

		cmd.Printf("Created %s\n", path)
		cmd.Printf("API key: %s\n", cfg.APIKey)
		cmd.Println("Declare the translator schema before serving.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
