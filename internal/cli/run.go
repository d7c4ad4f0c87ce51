package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"joke_notification_bot/internal/app"
	"joke_notification_bot/internal/domain/delivery"
	"joke_notification_bot/internal/domain/history"
	"joke_notification_bot/internal/infra/config"
	"joke_notification_bot/internal/infra/database"
	"joke_notification_bot/internal/infra/jokeapi"
	"joke_notification_bot/internal/infra/logger"
	"joke_notification_bot/internal/infra/scheduler"
	"joke_notification_bot/internal/infra/systemd"
	"joke_notification_bot/internal/infra/telegram"
	"joke_notification_bot/internal/infra/whatsapp"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// wiring is everything the notifier needs, built once from configuration.
type wiring struct {
	cfg     *config.AppConfig
	service *app.NotifierServiceImpl
	close   func()
}

// buildWiring loads and validates configuration before any network traffic, then
// wires the joke source, the delivery targets and the optional journal.
func buildWiring(ctx context.Context, flags *pflag.FlagSet, interactive bool) (*wiring, error) {
	var prompter config.Prompter
	if interactive {
		p, err := config.NewReadlinePrompter()
		if err != nil {
			return nil, err
		}
		defer p.Close()
		prompter = p
	}

	cfg, err := config.Load(configPath, prompter)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	logger.Init(stringFlagOr(flags, "log-level", cfg.LogLevel), cfg.Environment)
	log := logger.Get()
	log.Infof("Configuration loaded from %s. LogLevel: %s, Environment: %s", cfg.ConfigFile, log.GetLevel(), cfg.Environment)

	rt := &wiring{cfg: cfg, close: func() {}}

	var journal history.Repository = history.NopRepository{}
	if cfg.DatabaseURL != "" {
		repo, closeDB, err := openJournal(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		journal = repo
		rt.close = closeDB
		log.Info("Delivery journal enabled.")
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, app.DefaultIOTimeout)
	if err != nil {
		rt.close()
		return nil, err
	}
	targets := []delivery.Target{{
		Kind:        delivery.ChannelPrimary,
		Name:        "telegram",
		Destination: cfg.TelegramChatID,
		Sender:      telegram.NewTelebotAdapter(bot),
	}}
	if wa := cfg.WhatsApp; wa.Enabled() {
		targets = append(targets, delivery.Target{
			Kind:        delivery.ChannelSecondary,
			Name:        "whatsapp",
			Destination: wa.To,
			Sender:      whatsapp.NewTwilioClient(wa.APIURL, wa.AccountSID, wa.AuthToken, wa.From, app.DefaultIOTimeout),
		})
		log.Info("WhatsApp channel enabled.")
	}

	source := jokeapi.NewClient(cfg.JokeAPIURL, jokeapi.DefaultTimeout)
	rt.service = app.NewNotifierServiceImpl(source, targets, journal, log, cfg.Schedule.Interval)
	return rt, nil
}

func openJournal(ctx context.Context, databaseURL string) (*database.HistoryRepository, func(), error) {
	db, dialect, err := database.Open(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open delivery journal: %w", err)
	}
	repo := database.NewHistoryRepository(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("could not prepare delivery journal: %w", err)
	}
	return repo, func() { db.Close() }, nil
}

func newRunCmd() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the notification loop (stops on SIGINT/SIGTERM)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := buildWiring(ctx, cmd.Flags(), interactive)
			if err != nil {
				return err
			}
			defer rt.close()

			log := logger.Get()
			sched := scheduler.NewJokeScheduler(rt.service, rt.cfg.Schedule, log)
			sched.OnStarted = func() { systemd.Ready(log) }
			sched.OnStopping = func() { systemd.Stopping(log) }
			sched.Run(ctx)

			log.Info("Application shut down gracefully.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for missing settings before starting")
	return cmd
}

var errNothingDelivered = errors.New("joke was not delivered to any target")

func newSendOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-once",
		Short: "Fetch one joke, deliver it to every target and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildWiring(cmd.Context(), cmd.Flags(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			report := rt.service.DeliverJoke(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), report.Text)
			if report.Delivered == 0 {
				return errNothingDelivered
			}
			return nil
		},
	}
}
