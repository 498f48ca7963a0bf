// Package commands wires the planner services into the weekplanner CLI.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"week-planner/internal/bot"
	"week-planner/internal/config"
	"week-planner/internal/live"
	"week-planner/internal/repository"
	"week-planner/internal/service"
)

type rootOptions struct {
	configPath string
}

func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "weekplanner",
		Short:         "Task and category planner with week parity.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML config file (default $PLANNER_CONFIG).")

	addServe(cmd, opts)
	addWeek(cmd, opts)
	addParity(cmd, opts)
	return cmd
}

// app holds the opened database and the services built on it.
type app struct {
	cfg config.Config
	loc *time.Location
	db  *gorm.DB
	svc bot.Services
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	bus := live.NewBus()
	prefRepo := repository.NewPreferenceRepository(db, bus, repository.DefaultNamespace)
	return &app{
		cfg: cfg,
		loc: loc,
		db:  db,
		svc: bot.Services{
			Categories:  service.NewCategoryService(repository.NewCategoryRepository(db, bus)),
			Tasks:       service.NewTaskService(repository.NewTaskRepository(db, bus), bus, loc),
			Preferences: service.NewPreferenceService(prefRepo, bus, cfg.GeneralTitle),
			Parity:      service.NewParityService(prefRepo, bus, loc),
		},
	}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
