package main

import (
	"fmt"
	"os"

	"github.com/ecasanas/contratos-service/internal/auth"
	"github.com/ecasanas/contratos-service/internal/config"
	"github.com/ecasanas/contratos-service/internal/db"
	"github.com/ecasanas/contratos-service/internal/excel"
	httphandler "github.com/ecasanas/contratos-service/internal/http"
	"github.com/ecasanas/contratos-service/internal/http/middleware"
	"github.com/ecasanas/contratos-service/internal/logger"
	"github.com/ecasanas/contratos-service/internal/pdf"
	"github.com/ecasanas/contratos-service/internal/repository"
	"github.com/ecasanas/contratos-service/internal/service"
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

	actorRepo := repository.NewActorRepository(database)
	contractRepo := repository.NewContractRepository(database)
	zoneRepo := repository.NewZoneAssignmentRepository(database)
	propertyRepo := repository.NewPropertyAssignmentRepository(database)
	activityRepo := repository.NewActivityRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)

	resolver := service.NewResolver(zoneRepo, propertyRepo)
	guard := service.NewConsistencyGuard(zoneRepo, propertyRepo)

	contractService := service.NewContractService(contractRepo, actorRepo, zoneRepo, propertyRepo, resolver, guard, cfg, log)
	zoneService := service.NewZoneService(contractRepo, zoneRepo, catalogRepo, actorRepo, resolver, log)
	propertyService := service.NewPropertyService(contractRepo, propertyRepo, activityRepo, catalogRepo, actorRepo, resolver, log)
	reportService := service.NewReportService(contractRepo, zoneRepo, propertyRepo, resolver, excel.NewGenerator(), pdf.NewGenerator(), log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, zoneService, propertyService, reportService, log)
	authMiddleware := middleware.Auth(tokenParser, actorRepo)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contratos service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
