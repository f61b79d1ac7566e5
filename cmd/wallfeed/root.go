package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/wallfeed/internal/app"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	ConfigFile string
	PrefsFile  string
	Verbose    bool
	JSONOutput bool
}

// copyText replaces the system clipboard when set.
var copyText func(string) error

func (g globalOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: g.ConfigFile,
		PrefsPath:  g.PrefsFile,
		Verbose:    g.Verbose,
		JSONLogs:   g.JSONOutput,
		Clipboard:  copyText,
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "wallfeed",
		Short:         "Browse, favorite and apply wallpapers from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to config file (default ~/.config/wallfeed/config.toml)")
	root.PersistentFlags().StringVar(&opts.PrefsFile, "prefs", "", "Path to prefs file (default ~/.config/wallfeed/prefs.toml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newBrowseCmd(&opts),
		newListCmd(&opts),
		newFavoritesCmd(&opts),
		newDownloadCmd(&opts),
		newSetCmd(&opts),
		newShareCmd(&opts),
		newServeCmd(&opts),
		newLogsCmd(&opts),
	)
	return root
}

func newBrowseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the wallpaper browser (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, *opts)
		},
	}
}

func runBrowse(cmd *cobra.Command, opts globalOptions) error {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return fmt.Errorf("browse needs an interactive terminal; try `wallfeed list`")
	}
	return app.Run(cmd.Context(), opts.appOptions())
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writerIsTerminal reports whether w is a terminal file.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
