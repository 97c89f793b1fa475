package main

import (
	"github.com/spf13/cobra"

	"github.com/audionyq/ezimage/internal/tui"
)

var tuiOpts struct {
	noWatch bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	Long: `Launch the terminal user interface.

The TUI provides:
  - Style selection, applied immediately and remembered
  - An image file chooser starting in the last used directory
  - An about page with a link to the project home page
  - Live restyling when the preference file is edited elsewhere

Key bindings:
  o           Select an image file
  t           Choose the interface style
  a           About
  enter       Select
  esc         Back
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.noWatch, "no-watch", false,
		"Do not follow changes made to the preference file while running")
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Store:  prefStore,
		Logger: logger,
		Watch:  !tuiOpts.noWatch,
	})
}
