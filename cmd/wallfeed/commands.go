package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/wallfeed/internal/app"
	"github.com/five82/wallfeed/internal/config"
	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/logtail"
	"github.com/five82/wallfeed/internal/state"
	"github.com/five82/wallfeed/internal/wallpaper"
)

// entry is a record with the user's flags, as printed by list and favorites.
type entry struct {
	feed.Record
	Favorite   bool `json:"favorite"`
	Downloaded bool `json:"downloaded"`
}

func entries(store *state.Store, items []feed.Record) []entry {
	out := make([]entry, 0, len(items))
	for _, rec := range items {
		out = append(out, entry{Record: rec, Favorite: store.IsFavorite(rec.ID), Downloaded: store.IsDownloaded(rec.ID)})
	}
	return out
}

func printEntries(w io.Writer, asJSON bool, items []entry) error {
	if asJSON {
		return printJSON(w, items)
	}
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := ltable.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return cell
		}).
		Headers("ID", "NAME", "CATEGORY", "FLAGS")
	for _, e := range items {
		var flags []string
		if e.Favorite {
			flags = append(flags, "favorite")
		}
		if e.Downloaded {
			flags = append(flags, "downloaded")
		}
		t = t.Row(e.ID, e.Name, e.Category, strings.Join(flags, ","))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		pages    int
		search   string
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print wallpapers from the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if category != state.CategoryFavorites {
				if _, err := env.Store.FetchFirstPage(cmd.Context()); err != nil {
					return err
				}
				for env.Store.Snapshot().Page < pages {
					started, err := env.Store.FetchNextPage(cmd.Context())
					if err != nil {
						return err
					}
					if !started {
						break
					}
				}
			}
			items := env.Store.FilteredItems(search, category)
			return printEntries(cmd.OutOrStdout(), opts.JSONOutput, entries(env.Store, items))
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Number of pages to load")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Keep wallpapers whose name or category contains this text")
	cmd.Flags().StringVar(&category, "category", state.CategoryAll, "All, Trending, Favorites or a category label")
	return cmd
}

func newFavoritesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List, add or remove favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()
			return printEntries(cmd.OutOrStdout(), opts.JSONOutput, entries(env.Store, env.Store.Snapshot().Favorites))
		},
	}
	cmd.AddCommand(
		newFavoriteChangeCmd(opts, "add", "Add a wallpaper to the favorites", true),
		newFavoriteChangeCmd(opts, "remove", "Remove a wallpaper from the favorites", false),
	)
	return cmd
}

func newFavoriteChangeCmd(opts *globalOptions, use, short string, want bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			rec, err := resolve(env, args[0])
			if err != nil {
				return err
			}
			if env.Store.IsFavorite(rec.ID) != want {
				env.Store.ToggleFavorite(rec)
			}
			if want {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is a favorite\n", rec.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not a favorite\n", rec.Name)
			}
			return nil
		},
	}
}

func newDownloadCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id>",
		Short: "Save a wallpaper to the download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			rec, err := resolve(env, args[0])
			if err != nil {
				return err
			}
			path, err := env.Actions.Download(cmd.Context(), rec)
			if err != nil {
				return err
			}
			if opts.JSONOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": rec.ID, "path": path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newSetCmd(opts *globalOptions) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Apply a wallpaper to the desktop or lock screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := wallpaper.ParseTarget(target)
			if err != nil {
				return err
			}
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			rec, err := resolve(env, args[0])
			if err != nil {
				return err
			}
			if err := env.Actions.SetWallpaper(cmd.Context(), rec, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set as %s wallpaper\n", rec.Name, t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "home", "home, lock or both")
	return cmd
}

func newShareCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Copy a wallpaper link to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), opts.appOptions())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			rec, err := resolve(env, args[0])
			if err != nil {
				return err
			}
			link, err := env.Actions.Share(cmd.Context(), rec)
			if err != nil {
				return err
			}
			if opts.JSONOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": rec.ID, "url": link})
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wallpaper feed as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Serve(cmd.Context(), opts.appOptions(), listen)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config, 127.0.0.1:7490)")
	return cmd
}

func newLogsCmd(opts *globalOptions) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the wallfeed log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.Read(cfg.LogPath(), lines)
			if err != nil {
				return err
			}
			out = logtail.FilterLevel(out, level)
			if writerIsTerminal(cmd.OutOrStdout()) {
				out = logtail.ColorizeLines(out)
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "Number of lines to print (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn or error")
	return cmd
}

func resolve(env *app.Env, id string) (feed.Record, error) {
	rec, ok := env.Resolve(id)
	if !ok {
		return feed.Record{}, fmt.Errorf("unknown wallpaper id %q (ids run from 1 to %d)", id, env.Client.Total())
	}
	return rec, nil
}
