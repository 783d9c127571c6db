package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowbridge/rowbridge/pkg/translate"
)

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate <value-file>",
	Short: "Translate one binary record into a row",
	Long: `Translate one binary-encoded record into a flat typed row and
print it as JSON. Pass "-" to read the record from stdin.

Example:
  rowbridge translate message.bin --key-file key.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		translator, err := newTranslator(cfg)
		if err != nil {
			return err
		}

		value, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("reading value: %w", err)
		}

		var key []byte
		if keyFile, _ := cmd.Flags().GetString("key-file"); keyFile != "" {
			key, err = os.ReadFile(keyFile)
			if err != nil {
				return fmt.Errorf("reading key: %w", err)
			}
		}

		rows, err := translator.Translate(key, value)
		if err != nil {
			return err
		}
		row := rows[0]
		defer row.Release()

		out, err := translate.RowMap(row)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().String("key-file", "", "File holding the raw message key")
}
