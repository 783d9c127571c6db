package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rowbridge/rowbridge/pkg/api"
	"github.com/rowbridge/rowbridge/pkg/audit"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the RowBridge REST API server.

The server exposes one-record translation, the fixed output row schema,
retained raw envelopes, health, and Prometheus metrics.

Examples:
  rowbridge serve
  rowbridge serve --port=9200 --api-key=mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
			cfg.APIKey = apiKey
		}

		log := newLogger(cfg)

		translator, err := newTranslator(cfg)
		if err != nil {
			return err
		}

		var auditStore *audit.Store
		if cfg.Audit.Enabled {
			auditStore, err = audit.Open(cfg.Audit.DataDir)
			if err != nil {
				return err
			}
			defer auditStore.Close()
		}

		serverConfig := api.ServerConfig{
			Port:      cfg.Port,
			Bind:      cfg.Bind,
			APIKey:    cfg.APIKey,
			RetainAll: cfg.Audit.RetainAll,
		}

		return api.StartServer(translator, auditStore, serverConfig, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for protected routes (overrides config)")
}
