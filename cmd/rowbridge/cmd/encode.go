package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowbridge/rowbridge/pkg/codec"
	"github.com/rowbridge/rowbridge/pkg/schema"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <json-file>",
	Short: "Encode a JSON datum into the binary wire format",
	Long: `Encode a JSON object of field values into the binary wire format
the configured schema decodes. The producer-side counterpart of translate,
useful for exercising the round trip. Pass "-" to read from stdin.

Absent or null fields encode as null. Binary fields take base64 strings.

Example:
  echo '{"a": 5, "b": "x"}' | rowbridge encode - --out message.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		wire, err := schema.Build(cfg.Translator.FieldNames, cfg.Translator.FieldTypes)
		if err != nil {
			return err
		}
		c, err := codec.New(wire)
		if err != nil {
			return err
		}

		data, err := readInput(args[0])
		if err != nil {
			return fmt.Errorf("reading datum: %w", err)
		}

		var values map[string]interface{}
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parsing datum: %w", err)
		}

		// JSON has no binary scalar; base64-decode strings destined for
		// binary fields.
		for _, f := range wire.Fields() {
			if f.Kind != schema.KindBinary {
				continue
			}
			if s, ok := values[f.Name].(string); ok {
				raw, err := base64.StdEncoding.DecodeString(s)
				if err != nil {
					return fmt.Errorf("field %q: invalid base64: %w", f.Name, err)
				}
				values[f.Name] = raw
			}
		}

		buf, err := c.Encode(values)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			return os.WriteFile(out, buf, 0644)
		}
		_, err = cmd.OutOrStdout().Write(buf)
		return err
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringP("out", "o", "", "Write the encoded record to a file instead of stdout")
}
