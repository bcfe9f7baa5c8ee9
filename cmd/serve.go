package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linksum/internal/bot"
	"linksum/internal/scheduler"

	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(parent context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if a.cfg.Token == "" {
		a.log.ErrorContext(ctx, "TOKEN is required",
			"envVar", "TOKEN")

		return errors.New("TOKEN is required")
	}

	db, err := a.openDatabase(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", a.cfg.DBPath)

		return err
	}
	defer a.closeDatabase(ctx, db)
	a.log.InfoContext(ctx, "DB is initialized",
		"dbPath", a.cfg.DBPath)

	p, err := a.newPipeline(ctx, db)
	if err != nil {
		return err
	}

	botInst, err := bot.New(a.cfg.Token, p, db, bot.Options{
		AllowedUsers:      a.cfg.AllowedUsers,
		RequestsPerMinute: a.cfg.RequestsPerMinute,
		RequestTimeout:    a.cfg.RequestTimeout,
	}, a.log)
	if err != nil {
		a.log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(a.cfg.AllowedUsers))

		return err
	}
	a.log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(a.cfg.AllowedUsers),
		"model", p.DefaultModel())

	sched := scheduler.New(ctx, db, a.cfg.HistoryRetention, a.log)

	if err = sched.Start(); err != nil {
		a.log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.PruneHistorySpec,
			"timezone", scheduler.Timezone)

		return err
	}
	defer sched.Stop()
	a.log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.PruneHistorySpec,
		"timezone", scheduler.Timezone,
		"retention", a.cfg.HistoryRetention)

	done := make(chan struct{})
	go func() {
		defer close(done)
		botInst.Start(ctx)
	}()
	a.log.InfoContext(ctx, "Bot is started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		a.log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	<-done
	botInst.Stop()
	a.log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}
