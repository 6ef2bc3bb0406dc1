package main

import (
	"log"
	"net/http"

	"github.com/ferreirogomes/carbono/config"
	"github.com/ferreirogomes/carbono/handlers"
	"github.com/ferreirogomes/carbono/services"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha fatal ao carregar configuração: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Falha fatal ao inicializar logger: %v", err)
	}
	defer logger.Sync()

	db := storage.NewMemDB()

	registryService := services.NewRegistryService(db, logger)
	ledgerService := services.NewLedgerService(db)
	transferService := services.NewTransferService(db, logger)
	reportService := services.NewReportService(db)

	ownerHandler := handlers.NewOwnerHandler(registryService)
	lotHandler := handlers.NewLotHandler(registryService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, transferService, reportService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/owners", func(r chi.Router) {
		r.Post("/", ownerHandler.CreateOwner)
		r.Get("/", ownerHandler.ListOwners)
		r.Get("/{id}", ownerHandler.GetOwnerByID)
	})

	r.Route("/lots", func(r chi.Router) {
		r.Post("/", lotHandler.CreateLot)
		r.Get("/", lotHandler.ListLots)
		r.Get("/{id}", lotHandler.GetLotByID)
		r.Put("/{id}/status", lotHandler.UpdateLotStatus)

		r.Post("/{id}/trees", lotHandler.RegisterTree)
		r.Get("/{id}/trees", lotHandler.ListTreesByLotID)

		r.Post("/{id}/participations", ledgerHandler.SetInitialShares)
		r.Get("/{id}/participations", ledgerHandler.GetActiveParticipations)
		r.Get("/{id}/participations/history", ledgerHandler.GetParticipationHistory)

		r.Post("/{id}/sales", ledgerHandler.SellLot)
		r.Get("/{id}/transactions", ledgerHandler.GetTransactionHistory)
		r.Get("/{id}/report", ledgerHandler.GetLotReport)
	})

	addr := ":" + cfg.Port
	logger.Info("servidor de créditos de carbono iniciado", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("servidor encerrado", zap.Error(err))
	}
}

// newLogger monta o logger estruturado conforme o nível configurado.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
