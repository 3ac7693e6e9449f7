package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"vgdesk/internal/bootstrap"
	analysisdomain "vgdesk/internal/modules/analysis/domain"
	analysisdto "vgdesk/internal/modules/analysis/dto"
	batchdto "vgdesk/internal/modules/batch/dto"
	apperrors "vgdesk/internal/platform/errors"
	"vgdesk/internal/platform/config"
	"vgdesk/internal/platform/timecode"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "vgdesk",
		Short:         "Video anomaly search from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newAuthCmd(&dataDir))
	root.AddCommand(newAnalyzeCmd(&dataDir))
	root.AddCommand(newBatchCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	if dir := os.Getenv("VGDESK_DATA"); dir != "" {
		return dir
	}
	return "."
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(context.Background(), cfg)
}

// withApp runs fn against a freshly wired app and flushes the store after.
func withApp(dataDir string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(dataDir)
	if err != nil {
		return err
	}
	runErr := fn(app)
	closeErr := app.Close(context.Background())
	if runErr != nil {
		return runErr
	}
	return closeErr
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run vgdesk terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newAuthCmd(dataDir *string) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Local accounts"}

	var name, email, password string
	signup := &cobra.Command{
		Use:   "signup --name <name> --email <email> --password <password>",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.IdentityCLI.Signup(context.Background(), name, email, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed up %s <%s> id=%s\n", out.Name, out.Email, out.ID)
				return nil
			})
		},
	}
	signup.Flags().StringVar(&name, "name", "", "display name")
	signup.Flags().StringVar(&email, "email", "", "email")
	signup.Flags().StringVar(&password, "password", "", "password")

	login := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.IdentityCLI.Login(context.Background(), email, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", out.Name, out.Email)
				return nil
			})
		},
	}
	login.Flags().StringVar(&email, "email", "", "email")
	login.Flags().StringVar(&password, "password", "", "password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.IdentityCLI.Logout(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, ok := app.IdentityCLI.Whoami()
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "guest")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> id=%s since=%s\n", out.Name, out.Email, out.ID, out.CreatedAt.Format(time.RFC3339))
				return nil
			})
		},
	}

	var newName, newEmail, newPassword string
	update := &cobra.Command{
		Use:   "update [--name <name>] [--email <email>] [--password <password>]",
		Short: "Update the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.IdentityCLI.UpdateProfile(context.Background(), newName, newEmail, newPassword)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s <%s>\n", out.Name, out.Email)
				return nil
			})
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new display name")
	update.Flags().StringVar(&newEmail, "email", "", "new email")
	update.Flags().StringVar(&newPassword, "password", "", "new password")

	auth.AddCommand(signup, login, logout, whoami, update)
	return auth
}

func newAnalyzeCmd(dataDir *string) *cobra.Command {
	var query, report string
	var play int
	analyze := &cobra.Command{
		Use:   "analyze <video> --query <text>",
		Short: "Find the moments of a video that match a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				streaming := cmd.Flags().Changed("play")
				if streaming {
					if _, err := app.StartPlayback(); err != nil {
						return err
					}
				}
				state, err := app.AnalysisCLI.Analyze(ctx, args[0], query)
				if err != nil {
					return userError(state.Error, err)
				}
				printAnalysis(cmd.OutOrStdout(), state)

				if report != "" {
					path := report
					if path == "auto" {
						path = ""
					}
					written, err := app.AnalysisCLI.ExportReport(ctx, path)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report=%s\n", written)
				}
				if !streaming {
					return nil
				}
				out, err := app.AnalysisCLI.Play(ctx, play)
				if err != nil {
					return err
				}
				return streamUntilInterrupt(ctx, cmd.OutOrStdout(), out.Target, out.Launched)
			})
		},
	}
	analyze.Flags().StringVar(&query, "query", "", "what to look for")
	analyze.Flags().StringVar(&report, "report", "", "write a markdown report (path, or no value for the default location)")
	analyze.Flags().Lookup("report").NoOptDefVal = "auto"
	analyze.Flags().IntVar(&play, "play", 0, "stream the video after analysis, seeking to the Nth best moment (0 plays it whole)")
	return analyze
}

func newBatchCmd(dataDir *string) *cobra.Command {
	batch := &cobra.Command{Use: "batch", Short: "Analyse many videos with one query"}

	var query string
	var play string
	run := &cobra.Command{
		Use:   "run <path...> --query <text>",
		Short: "Analyse videos one after another; directories are scanned for videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				streaming := cmd.Flags().Changed("play")
				if streaming {
					if _, err := app.StartPlayback(); err != nil {
						return err
					}
				}
				errOut := cmd.ErrOrStderr()
				state, err := app.BatchCLI.Run(ctx, args, app.Config.VideoExts, query, func(p batchdto.ProgressOutput) {
					if p.Active && p.CurrentFileName != "" {
						_, _ = fmt.Fprintf(errOut, "[%d/%d] %s\n", p.Current, p.Total, p.CurrentFileName)
					}
				})
				if state.Results != nil {
					printBatch(cmd.OutOrStdout(), state)
				}
				if err != nil {
					return userError(state.Error, err)
				}
				if !streaming {
					return nil
				}
				video, rank, err := parsePlayTarget(play)
				if err != nil {
					return err
				}
				out, err := app.BatchCLI.Play(ctx, video, rank)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "playing %s\n", out.FileName)
				return streamUntilInterrupt(ctx, cmd.OutOrStdout(), out.Target, out.Launched)
			})
		},
	}
	run.Flags().StringVar(&query, "query", "", "what to look for")
	run.Flags().StringVar(&play, "play", "", "stream a result afterwards: <video>[:<rank>], 0 picks the best video")
	run.Flags().Lookup("play").NoOptDefVal = "0"

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Show the results an interrupted batch saved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				cp, ok, err := app.BatchCLI.Recover(context.Background())
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no interrupted batch")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "query=%q saved=%s videos=%d\n", cp.Query, cp.SavedAt.Local().Format(time.RFC3339), len(cp.Videos))
				for _, v := range cp.Videos {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.FileName, timecode.Percent(v.HighestScore))
				}
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard any saved batch progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.BatchCLI.Clear(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "batch progress cleared")
				return nil
			})
		},
	}

	batch.AddCommand(run, recoverCmd, clearCmd)
	return batch
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Past analyses"}

	var limit int
	var mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List past analyses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				userID := ""
				if mine {
					account, ok := app.IdentityCLI.Whoami()
					if !ok {
						return apperrors.ErrNotAuthenticated
					}
					userID = account.ID
				}
				items, err := app.HistoryCLI.List(context.Background(), limit, userID)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history")
					return nil
				}
				for _, it := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%q\t%s\n", it.Time.Local().Format("2006-01-02 15:04"), it.Status, it.FileName, it.Query, it.AnomalyType)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum entries (0 for all)")
	list.Flags().BoolVar(&mine, "mine", false, "only the signed-in user's entries")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.HistoryCLI.Clear(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			})
		},
	}

	history.AddCommand(list, clearCmd)
	return history
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Preferences of the signed-in user (or guest)"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SettingsCLI.Show(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scope=%s\n", out.Scope)
				for _, kv := range out.Settings.Flatten() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", kv[0], kv[1])
				}
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <section.field> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SettingsCLI.Set(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s for %s\n", args[0], out.Scope)
				return nil
			})
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SettingsCLI.Reset(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "defaults restored for %s\n", out.Scope)
				return nil
			})
		},
	})
	return settings
}

func newServeCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <video...>",
		Short: "Stream local videos over HTTP until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				base, err := app.StartPlayback()
				if err != nil {
					return err
				}
				urls, err := app.Publish(args)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving on %s\n", base)
				for i, url := range urls {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", args[i], url)
				}
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				<-ctx.Done()
				return nil
			})
		},
	}
}

// userError puts the store's user-facing message in front of the cause.
func userError(message string, err error) error {
	if message == "" || errors.Is(err, apperrors.ErrSubmissionInFlight) {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}

func streamUntilInterrupt(ctx context.Context, out io.Writer, target string, launched bool) error {
	_, _ = fmt.Fprintf(out, "stream=%s launched=%t (ctrl+c to stop)\n", target, launched)
	<-ctx.Done()
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func printAnalysis(out io.Writer, state analysisdto.StateOutput) {
	_, _ = fmt.Fprintf(out, "file=%s size=%s query=%q\n", state.FileName, timecode.FormatFileSize(state.FileSize), state.Query)
	if state.Results == nil {
		return
	}
	r := state.Results
	if r.HasBest {
		_, _ = fmt.Fprintf(out, "best=%s-%s score=%s\n", r.Best.StartTime, r.Best.EndTime, timecode.Percent(r.Best.Score))
	} else {
		_, _ = fmt.Fprintln(out, "no matching moments")
		return
	}
	_, _ = fmt.Fprintln(out, momentTable(r.Ranked))
}

func momentTable(moments []analysisdomain.Moment) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "START", "END", "SCORE", "BAND").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, m := range moments {
		t.Row(strconv.Itoa(i+1), m.StartTime, m.EndTime, timecode.Percent(m.Score), string(timecode.ScoreBand(m.Score)))
	}
	return t.Render()
}

func printBatch(out io.Writer, state batchdto.StateOutput) {
	r := state.Results
	_, _ = fmt.Fprintf(out, "processed=%d of %d query=%q\n", r.TotalProcessed, len(state.Files), state.Query)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "VIDEO", "SIZE", "MOMENTS", "BEST", "SCORE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, v := range r.Videos {
		best := "-"
		if v.BestMoment != nil {
			best = v.BestMoment.StartTime + "-" + v.BestMoment.EndTime
		}
		name := v.FileName
		if r.HasBest && i == bestIndex(r) {
			name = "* " + name
		}
		t.Row(strconv.Itoa(i+1), name, timecode.FormatFileSize(v.FileSize), strconv.Itoa(len(v.Results.MomentRetrieval)), best, timecode.Percent(v.HighestScore))
	}
	_, _ = fmt.Fprintln(out, t.Render())
	if r.HasBest {
		_, _ = fmt.Fprintf(out, "best video: %s (%s)\n", r.Best.FileName, timecode.Percent(r.Best.HighestScore))
	}
}

// parsePlayTarget reads "<video>[:<rank>]".
func parsePlayTarget(raw string) (int, int, error) {
	videoPart, rankPart, hasRank := strings.Cut(raw, ":")
	video, err := strconv.Atoi(videoPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: play target %q", apperrors.ErrInvalidInput, raw)
	}
	if !hasRank {
		return video, 0, nil
	}
	rank, err := strconv.Atoi(rankPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: play target %q", apperrors.ErrInvalidInput, raw)
	}
	return video, rank, nil
}

func bestIndex(r *batchdto.ResultsOutput) int {
	for i, v := range r.Videos {
		if v.VideoURL == r.Best.VideoURL && v.FileName == r.Best.FileName {
			return i
		}
	}
	return -1
}
