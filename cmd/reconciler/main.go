// Фоновый воркер сверки счетчиков занятости слотов.
// Запускается отдельным процессом рядом с основным сервисом.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/Realty-BookingService/internal/config"
	appointmentRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	reconcileSlotsUC "github.com/m04kA/Realty-BookingService/internal/usecase/reconcile_slots"
	"github.com/m04kA/Realty-BookingService/pkg/logger"
	"github.com/m04kA/Realty-BookingService/pkg/simpletxmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting slot reconciler...")

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	reconcileUseCase := reconcileSlotsUC.NewUseCase(
		slotRepo.NewRepository(db),
		appointmentRepo.NewRepository(db),
		simpletxmanager.NewTransactionManager(db),
		log,
	)

	interval := time.Duration(cfg.Booking.ReconcileInterval) * time.Second
	log.Info("Reconcile interval: %s", interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		if _, err := reconcileUseCase.ReconcileAll(runCtx); err != nil {
			log.Error("Reconcile run failed: %v", err)
		}
	}

	// Первый проход сразу при старте
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			log.Info("Reconciler stopped")
			return
		}
	}
}
