package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool configuration",
	Long: `View and change persistent configuration.

Well-known keys:
  inject.domain            default business domain for inject
  inject.compress          compress large envelopes by default (bool)
  inject.add_integrity     add an integrity digest by default (bool)
  inject.schema_url        default schema URL for inject
  extract.verify_integrity verify digests on extract by default (bool)
  scan.roots               default roots for scan and watch (list)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set and persist a configuration value",
	Long: `Sets a configuration value and writes it to the config file.

Values "true" and "false" are stored as booleans, numeric values as
integers, and comma-separated values as lists. Everything else is
stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := []string{
		file.KeyInjectDomain,
		file.KeyInjectCompress,
		file.KeyInjectIntegrity,
		file.KeyInjectSchemaURL,
		file.KeyExtractVerify,
		file.KeyScanRoots,
	}
	sort.Strings(keys)

	cmd.Println("Configuration:")
	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-26s (unset)\n", key)
			continue
		}
		cmd.Printf("  %-26s %v\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// parseConfigValue maps CLI text to the natural TOML value type.
func parseConfigValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		return values
	}
	return raw
}
