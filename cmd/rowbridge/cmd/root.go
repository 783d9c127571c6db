package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rowbridge/rowbridge/pkg/config"
	"github.com/rowbridge/rowbridge/pkg/translate"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rowbridge",
	Short: "RowBridge - schema-driven binary record translator",
	Long: `RowBridge decodes binary-encoded records into flat typed rows,
driven by a declared ordered schema of field names and primitive types.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")
}

// loadConfig resolves and loads the configuration file for a subcommand.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if !config.ConfigExists(path) {
		return nil, fmt.Errorf("config file %s does not exist (run 'rowbridge init' first)", path)
	}
	return config.LoadConfig(path)
}

// newTranslator builds the configured translator from the config file's
// translator section.
func newTranslator(cfg *config.Config) (*translate.Translator, error) {
	t, err := translate.New(cfg.Translator.TranslateConfig())
	if err != nil {
		return nil, fmt.Errorf("configuring translator: %w", err)
	}
	return t, nil
}

// newLogger builds a logrus logger honoring the configured level.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	return log
}
