package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/transvia/fleet-office/internal/auth"
	"github.com/transvia/fleet-office/internal/config"
	"github.com/transvia/fleet-office/internal/db"
	"github.com/transvia/fleet-office/internal/excel"
	httphandler "github.com/transvia/fleet-office/internal/http"
	"github.com/transvia/fleet-office/internal/http/middleware"
	"github.com/transvia/fleet-office/internal/logger"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/pdf"
	"github.com/transvia/fleet-office/internal/repository"
	"github.com/transvia/fleet-office/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	var opStore oplog.Store = oplog.NewRing(cfg.OpLog.Capacity)
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStore, err := oplog.NewRedisStore(ctx, cfg.Redis.URL, cfg.OpLog.Capacity)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisStore.Close()
		opStore = redisStore
		log.Info().Msg("operation log stored in redis")
	}

	contractRepo := repository.NewContractRepository(database)
	cancellationRepo := repository.NewCancellationRepository(database)
	receiptRepo := repository.NewReceiptRepository(database)
	balanceRepo := repository.NewBalanceRepository(database)
	userRepo := repository.NewUserRepository(database)
	permissionRepo := repository.NewPermissionRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	fuelingRepo := repository.NewFuelingRepository(database)
	maintenanceRepo := repository.NewMaintenanceRepository(database)

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	cancellations := service.NewCancellationService(cancellationRepo, opStore, log)
	contracts := service.NewContractService(contractRepo, cancellations, opStore, log)
	services := httphandler.Services{
		Contracts:     contracts,
		Cancellations: cancellations,
		Receipts:      service.NewReceiptService(receiptRepo, balanceRepo, opStore, log),
		Permissions:   service.NewPermissionService(permissionRepo),
		Users:         service.NewUserService(userRepo, permissionRepo, issuer, opStore, log),
		Fleet:         service.NewFleetService(vehicleRepo, fuelingRepo, maintenanceRepo, opStore, log),
		Exports: service.NewExportService(cancellations, contracts, pdf.NewGenerator(), excel.NewGenerator(), service.ReportBranding{
			CompanyName: cfg.Report.CompanyName,
			LogoPath:    cfg.Report.LogoPath,
		}),
		OpLog: opStore,
	}

	handler := httphandler.NewHandler(services, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSAllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleet office")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
