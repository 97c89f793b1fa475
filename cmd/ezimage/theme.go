package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audionyq/ezimage/internal/theme"
	"github.com/audionyq/ezimage/internal/tui"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect or change the interface style",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available styles",
	Long: `List the styles the TUI can apply.

The style in use at startup is marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: runThemeList,
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the style used at startup",
	Long: `Print the style the TUI applies at startup.

When no style is saved the fallback is printed followed by "(not saved)".`,
	Args: cobra.NoArgs,
	RunE: runThemeGet,
}

var themeSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Save the style used at startup",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tui.NewSkin().AvailableThemes(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runThemeSet,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd, themeGetCmd, themeSetCmd)
}

// newHeadlessSelector resolves themes against the TUI palettes without a terminal.
func newHeadlessSelector() (*theme.Selector, *tui.Skin) {
	skin := tui.NewSkin()
	return theme.NewSelector(prefStore, skin, logger), skin
}

func runThemeList(cmd *cobra.Command, args []string) error {
	selector, skin := newHeadlessSelector()
	active := selector.Startup()
	if active == "" {
		active = tui.DefaultPalette
	}

	out := cmd.OutOrStdout()
	for _, name := range skin.AvailableThemes() {
		marker := " "
		if name == active {
			marker = "*"
		}
		label := tui.Label(name)
		if label != name {
			fmt.Fprintf(out, "%s %s (%s)\n", marker, name, label)
		} else {
			fmt.Fprintf(out, "%s %s\n", marker, name)
		}
	}
	return nil
}

func runThemeGet(cmd *cobra.Command, args []string) error {
	selector, _ := newHeadlessSelector()
	if name, ok := selector.ReadTheme(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	}

	active := selector.Startup()
	if active == "" {
		active = tui.DefaultPalette
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (not saved)\n", active)
	return nil
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	selector, _ := newHeadlessSelector()
	if err := selector.Select(args[0]); err != nil {
		if errors.Is(err, theme.ErrUnknownTheme) {
			return fmt.Errorf("unknown style %q (see 'ezimage theme list')", args[0])
		}
		return fmt.Errorf("failed to save style: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Style set to %s\n", args[0])
	return nil
}
