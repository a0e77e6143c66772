package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rank-progression-system/database"
	"rank-progression-system/handlers"
	"rank-progression-system/progression"
	"rank-progression-system/services"
	"rank-progression-system/utils"
	"rank-progression-system/workers"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the retention scheduler and profile sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(migrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "Run schema migrations before starting")
	rootCmd.AddCommand(serveCmd)
}

func serve(migrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	policy, err := progression.PolicyByName(cfg.CompetencyPolicy)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var uploader services.ImageUploader
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Storage(ctx, cfg.R2)
		if err != nil {
			return err
		}
		uploader = r2
	} else {
		log.Warn("R2 is not configured, artifact image upload disabled")
	}

	notifications := services.NewNotificationService(db, log)
	ranks := services.NewRankService(db, progression.NewEvaluator(policy), log)
	app := handlers.NewApp(handlers.AppOptions{
		AllowedOrigins: cfg.Origins(),
		ServiceToken:   cfg.ServiceToken,
		AdminRole:      cfg.AdminRole,
	}, handlers.Services{
		DB:            db,
		Ranks:         ranks,
		Notifications: notifications,
		Users:         services.NewUserService(db, ranks, notifications, log),
		Missions:      services.NewMissionService(db, notifications, log),
		Shop:          services.NewShopService(db, notifications, log),
		Artifacts:     services.NewArtifactService(db, uploader, log),
		Cards:         services.NewCardService(db, notifications, log),
	}, log)

	sched, err := notifications.StartRetentionScheduler(cfg.NotificationRetentionDays)
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Warn("scheduler shutdown", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv, "competency_policy", cfg.CompetencyPolicy)
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if cfg.DirectoryServiceURL != "" {
		worker := workers.NewProfileSyncWorker(db, notifications, log,
			cfg.DirectoryServiceURL, cfg.DirectoryServiceToken, cfg.DirectorySyncInterval)
		g.Go(func() error { return worker.Run(gctx) })
	} else {
		log.Warn("DIRECTORY_SERVICE_URL is not set, profile sync disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("stopped")
	return nil
}
