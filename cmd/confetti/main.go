package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"confetti/internal/bootstrap"
	bookmarksdomain "confetti/internal/modules/bookmarks/domain"
	conferencedomain "confetti/internal/modules/conference/domain"
	"confetti/internal/platform/config"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/logging"
	uiapp "confetti/internal/ui/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	dataDir       string
	conference    string
	logLevel      string
	clockInterval time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "confetti",
		Short:         "Conference schedule and bookmarks companion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default $CONFETTI_DATA_DIR or ~/.confetti)")
	root.PersistentFlags().StringVar(&opts.conference, "conference", "", "conference id")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().DurationVar(&opts.clockInterval, "clock-interval", 0, "how often the bookmarks split is recomputed")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newConferencesCmd(opts))
	root.AddCommand(newSessionsCmd(opts))
	root.AddCommand(newSpeakersCmd(opts))
	root.AddCommand(newBookmarksCmd(opts))
	root.AddCommand(newAuthCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func loadConfig(opts *options) (config.Config, error) {
	dir := opts.dataDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDataDir(); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, err
	}
	if opts.conference != "" {
		cfg.Conference = opts.conference
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.clockInterval != 0 {
		cfg.ClockInterval = opts.clockInterval
	}
	return cfg, cfg.Validate()
}

// loadApp wires the application with a logger writing to w.
func loadApp(opts *options, w io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(w, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func requireConference(app *bootstrap.App) (string, error) {
	if app.Config.Conference == "" {
		return "", fmt.Errorf("%w: pass --conference or set conference in config.toml", apperrors.ErrConferenceRequired)
	}
	return app.Config.Conference, nil
}

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the confetti terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, closer, err := logging.NewFile(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closer.Close()
			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <schedule.yaml>",
		Short: "Import or replace a conference schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ConferenceCLI.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s) sessions=%d speakers=%d\n", out.Name, out.ConferenceID, out.Sessions, out.Speakers)
			return nil
		},
	}
}

func newConferencesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "conferences",
		Short: "List imported conferences by year, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			groups, err := app.ConferenceCLI.ConferencesByYear(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no conferences")
				return nil
			}
			for _, group := range groups {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\n", group.Year)
				for _, c := range group.Conferences {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s\t%s\n", c.ID, c.Name, c.TimeZone)
				}
			}
			return nil
		},
	}
}

func newSessionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List the conference sessions by day and start time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			userID, err := app.AuthCLI.UserID(cmd.Context())
			if err != nil {
				return err
			}
			days, err := app.Conferences.SessionsByStartTime(cmd.Context(), conferenceID)
			if err != nil {
				return err
			}
			bookmarks, err := app.Conferences.Bookmarks(cmd.Context(), conferenceID, userID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, day := range days {
				_, _ = fmt.Fprintf(w, "%s\n", day.Date.Format("Monday 2 January 2006"))
				for _, slot := range day.Slots {
					for _, s := range slot.Sessions {
						mark := " "
						if bookmarks.Has(s.ID) {
							mark = "*"
						}
						_, _ = fmt.Fprintf(w, "  %s %s-%s  %s  %s", mark, s.StartsAt.Format("15:04"), s.EndsAt.Format("15:04"), s.ID, s.Title)
						if s.Room != "" {
							_, _ = fmt.Fprintf(w, " [%s]", s.Room)
						}
						_, _ = fmt.Fprintln(w)
					}
				}
			}
			return nil
		},
	}
}

func newSpeakersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers",
		Short: "List the conference speakers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			speakers, err := app.Conferences.ListSpeakers(cmd.Context(), conferenceID)
			if err != nil {
				return err
			}
			for _, sp := range speakers {
				line := sp.Name
				if sp.Company != "" {
					line += " (" + sp.Company + ")"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newBookmarksCmd(opts *options) *cobra.Command {
	var at string
	var watch bool

	bookmarks := &cobra.Command{
		Use:   "bookmarks",
		Short: "Show bookmarked sessions split into upcoming and past",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			if watch {
				return watchBookmarks(cmd.Context(), app, conferenceID, cmd.OutOrStdout())
			}
			instant, err := parseAt(at)
			if err != nil {
				return err
			}
			userID, err := app.AuthCLI.UserID(cmd.Context())
			if err != nil {
				return err
			}
			out, err := app.BookmarksCLI.Snapshot(cmd.Context(), conferenceID, userID, instant)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%d bookmarks as of %s\n", out.Bookmarks, out.At.Format("2006-01-02 15:04"))
			_, _ = fmt.Fprintln(w, "Upcoming")
			for _, slot := range out.Upcoming {
				for _, s := range slot.Sessions {
					_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", slot.StartsAt.Format("Mon 15:04"), s.ID, s.Title)
				}
			}
			_, _ = fmt.Fprintln(w, "Past")
			for _, slot := range out.Past {
				for _, s := range slot.Sessions {
					_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", slot.StartsAt.Format("Mon 15:04"), s.ID, s.Title)
				}
			}
			return nil
		},
	}
	bookmarks.Flags().StringVar(&at, "at", "", "split around this conference-local time (2006-01-02T15:04) instead of now")
	bookmarks.Flags().BoolVar(&watch, "watch", false, "keep printing the split whenever it changes")

	bookmarks.AddCommand(
		newBookmarkEditCmd(opts, "add", "Bookmark a session"),
		newBookmarkEditCmd(opts, "remove", "Remove a bookmark"),
		newBookmarkToggleCmd(opts),
		newBookmarkExportCmd(opts),
	)
	return bookmarks
}

func newBookmarkEditCmd(opts *options, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			userID, err := app.AuthCLI.UserID(cmd.Context())
			if err != nil {
				return err
			}
			if verb == "add" {
				err = app.ConferenceCLI.AddBookmark(cmd.Context(), conferenceID, userID, args[0])
			} else {
				err = app.ConferenceCLI.RemoveBookmark(cmd.Context(), conferenceID, userID, args[0])
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			return nil
		},
	}
}

func newBookmarkToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <session-id>",
		Short: "Bookmark a session or remove its bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			userID, err := app.AuthCLI.UserID(cmd.Context())
			if err != nil {
				return err
			}
			out, err := app.ScheduleCLI.ToggleBookmark(cmd.Context(), conferenceID, userID, args[0])
			if err != nil {
				return err
			}
			state := "removed"
			if out.Bookmarked {
				state = "bookmarked"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, out.SessionID)
			return nil
		},
	}
}

func newBookmarkExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the bookmarks agenda as a markdown note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			conferenceID, err := requireConference(app)
			if err != nil {
				return err
			}
			userID, err := app.AuthCLI.UserID(cmd.Context())
			if err != nil {
				return err
			}
			out, err := app.BookmarksCLI.Export(cmd.Context(), conferenceID, userID, args[0], time.Time{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s upcoming=%d past=%d\n", out.Path, out.Upcoming, out.Past)
			return nil
		},
	}
}

// watchBookmarks prints every UiState of a live bookmarks component until
// the command is interrupted.
func watchBookmarks(ctx context.Context, app *bootstrap.App, conferenceID string, w io.Writer) error {
	screen, err := app.WatchBookmarks(ctx, conferenceID, uiapp.Navigator{})
	if err != nil {
		return err
	}
	defer screen.Close()
	for state := range screen.UiState().Subscribe(ctx) {
		printUiState(w, state, screen.IsLoggedIn())
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func printUiState(w io.Writer, state bookmarksdomain.UiState, loggedIn bool) {
	switch s := state.(type) {
	case bookmarksdomain.Loading:
		_, _ = fmt.Fprintln(w, "loading...")
	case bookmarksdomain.Error:
		_, _ = fmt.Fprintln(w, "bookmarks unavailable")
	case bookmarksdomain.Success:
		_, _ = fmt.Fprintf(w, "--- %s upcoming=%d past=%d\n", time.Now().Format("15:04:05"), s.UpcomingSessions.Count(), s.PastSessions.Count())
		if !loggedIn {
			_, _ = fmt.Fprintln(w, "(not signed in: bookmarks are kept on this device only)")
		}
		for start, sessions := range s.UpcomingSessions.All() {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", start.Format("Mon 15:04"), titles(sessions))
		}
	}
}

func titles(sessions []conferencedomain.Session) string {
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Title)
	}
	return strings.Join(names, " | ")
}

// parseAt reads --at as a wall-clock time. Only the wall-clock fields matter
// to the split, so UTC is as good as any zone here.
func parseAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, conferencedomain.LocalLayout, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: --at %q is not a date-time", apperrors.ErrInvalidInput, value)
}

func newAuthCmd(opts *options) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Sign in to keep bookmarks under your account"}

	var email string
	signIn := &cobra.Command{
		Use:   "signin <display-name>",
		Short: "Sign in on this device",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.SignIn(cmd.Context(), strings.Join(args, " "), email)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", out.DisplayName, out.UID)
			return nil
		},
	}
	signIn.Flags().StringVar(&email, "email", "", "email address (optional)")

	auth.AddCommand(signIn,
		&cobra.Command{
			Use:   "signout",
			Short: "Sign out; bookmarks made while signed in stay with the account",
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, err := loadApp(opts, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer app.Close()
				if err := app.AuthCLI.SignOut(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in user",
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, err := loadApp(opts, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer app.Close()
				out, ok, err := app.AuthCLI.WhoAmI(cmd.Context())
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", out.DisplayName, out.Email, out.UID)
				return nil
			},
		},
	)
	return auth
}

func newConfigCmd(opts *options) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter config.toml into the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			path, err := config.WriteDefault(cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "data_dir=%s\ndb_path=%s\nuser_file=%s\nlog_file=%s\n", cfg.DataDir, cfg.DBPath, cfg.UserFile, cfg.LogFile)
			_, _ = fmt.Fprintf(w, "log_level=%s\nconference=%s\nclock_interval=%s\n", cfg.LogLevel, cfg.Conference, cfg.ClockInterval)
			return nil
		},
	})
	return cfgCmd
}
