package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"week-planner/internal/bot"
	"week-planner/internal/scheduler"
)

func addServe(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the telegram front end.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	topLevel.AddCommand(cmd)
}

func runServe(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.RequireToken(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	telegramBot, err := bot.New(a.cfg.TelegramToken, a.svc)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	sched := scheduler.New(a.loc)
	if _, err := sched.ScheduleWeekStart(func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.RollWeek(jobCtx); err != nil {
			log.Printf("roll week: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule week rollover: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("Week planner bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped with error: %w", err)
	}
	log.Println("Shutdown complete.")
	return nil
}
