package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/audionyq/ezimage/internal/config"
)

var configOpts struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and edit the preference file",
}

var configGetCmd = &cobra.Command{
	Use:   "get SECTION KEY",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set SECTION KEY VALUE",
	Short: "Store a value",
	Long: `Store a value, creating the file and section if needed.

Other sections and keys are left as they are.

Examples:
  ezimage config set GUI Theme alt
  ezimage config set Files LastDirectory ~/Pictures`,
	Args: cobra.ExactArgs(3),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset SECTION KEY",
	Short: "Remove a stored value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigUnset,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the whole preference file",
	Long: `Print every stored value.

Formats:
  ini   - the on-disk format (default)
  toml  - TOML tables
  yaml  - YAML mapping
  json  - JSON object`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the preference file",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configUnsetCmd, configShowCmd, configPathCmd)

	configShowCmd.Flags().StringVarP(&configOpts.format, "format", "f", "ini",
		"Output format ("+strings.Join(config.ExportFormats, ", ")+")")
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := prefStore.Read(args[0], args[1])
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("%s.%s is not set", args[0], args[1])
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := prefStore.Write(args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("failed to set %s.%s: %w", args[0], args[1], err)
	}
	logger.Debug("value stored", "section", args[0], "key", args[1])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if err := prefStore.Delete(args[0], args[1]); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("%s.%s is not set", args[0], args[1])
		}
		return fmt.Errorf("failed to unset %s.%s: %w", args[0], args[1], err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := prefStore.Data()
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	return config.Export(cmd.OutOrStdout(), data, configOpts.format)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, prefStore.Path())

	info, err := os.Stat(prefStore.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "  (not created yet)")
			return nil
		}
		return fmt.Errorf("failed to stat preference file: %w", err)
	}

	fmt.Fprintf(out, "  Size: %s\n", humanize.Bytes(uint64(info.Size())))
	fmt.Fprintf(out, "  Modified: %s\n", humanize.Time(info.ModTime()))
	return nil
}
