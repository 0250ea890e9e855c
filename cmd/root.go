package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"backup-check/config"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

var (
	envFile   string
	flags     config.Config
	cfg       config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "backup-check",
	Short: "Check that client backups reached Google Drive",
	Long: `Searches each registered client's Google Drive folder tree for .zip
archives modified on a given day and writes the matches to a spreadsheet.

Without a subcommand the interactive interface is started.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runUI,
}

func init() {
	defaults := config.Default()
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&envFile, "env-file", config.DefaultEnvFile, "Optional file of BACKUPCHECK_* variables")
	pf.StringVar(&flags.CredentialsPath, "credentials", defaults.CredentialsPath, "Path to Google OAuth client secret")
	pf.StringVar(&flags.TokenPath, "token", defaults.TokenPath, "Path to OAuth token cache")
	pf.StringVar(&flags.ClientsPath, "clients", defaults.ClientsPath, "Path to the client list")
	pf.StringVar(&flags.OutputPath, "output", defaults.OutputPath, "Path of the spreadsheet report")
	pf.StringVar(&flags.HistoryPath, "history", defaults.HistoryPath, "Path to a SQLite run history (disabled when empty)")
	pf.StringVar(&flags.Timezone, "timezone", defaults.Timezone, "Time zone used to compare modification days")
	pf.BoolVar(&flags.AllPages, "all-pages", defaults.AllPages, "Read every page of large folders instead of the first 1000 entries")
	pf.BoolVar(&flags.Debug, "debug", defaults.Debug, "Enable debug logging")
	pf.StringVar(&flags.LogFile, "log-file", defaults.LogFile, "Log file used while the interactive interface runs")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clearCmd)
}

// loadConfig merges defaults, the env file, the environment and any flag
// given explicitly, in that order.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(envFile)
	if err != nil {
		return err
	}

	overrides := map[string]func(){
		"credentials": func() { loaded.CredentialsPath = flags.CredentialsPath },
		"token":       func() { loaded.TokenPath = flags.TokenPath },
		"clients":     func() { loaded.ClientsPath = flags.ClientsPath },
		"output":      func() { loaded.OutputPath = flags.OutputPath },
		"history":     func() { loaded.HistoryPath = flags.HistoryPath },
		"timezone":    func() { loaded.Timezone = flags.Timezone },
		"all-pages":   func() { loaded.AllPages = flags.AllPages },
		"debug":       func() { loaded.Debug = flags.Debug },
		"log-file":    func() { loaded.LogFile = flags.LogFile },
	}

	fs := cmd.Flags()
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	setLogger(os.Stderr)

	return nil
}

func setLogger(w io.Writer) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// logToFile sends log output to the configured log file so it does not
// draw over the interactive interface.
func logToFile() error {
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to open log file")
	}

	logCloser = f
	setLogger(f)
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if logCloser != nil {
		logCloser.Close()
	}

	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
