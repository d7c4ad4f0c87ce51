// Package cli exposes the notifier and its repository helpers as cobra commands.
package cli

import (
	"os"

	"joke_notification_bot/internal/infra/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configPath string
	envFile    string
	logLevel   string
)

// NewRootCmd creates the root CLI command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jokebot",
		Short:         "Sends a joke to Telegram (and optionally WhatsApp) at a fixed interval",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file, JSON or YAML (default $BOT_CONFIG_FILE or secrets.json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file used by the git helpers")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (panic|fatal|error|warn|info|debug|trace)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.Init(stringFlagOr(cmd.Flags(), "log-level", "info"), os.Getenv("ENVIRONMENT"))
	}

	cmd.AddCommand(
		newRunCmd(),
		newSendOnceCmd(),
		newHistoryCmd(),
		newCICmd(),
		newGitCmd(),
		newPositionsCmd(),
	)
	return cmd
}

// stringFlagOr returns the flag value when it was set on the command line, def otherwise.
func stringFlagOr(fs *pflag.FlagSet, name, def string) string {
	f := fs.Lookup(name)
	if f == nil || !f.Changed || f.Value.String() == "" {
		return def
	}
	return f.Value.String()
}
