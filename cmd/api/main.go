package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	commissionStore "github.com/andresgp/comcrm/internal/commission/store"
	saleStore "github.com/andresgp/comcrm/internal/sale/store"

	"github.com/andresgp/comcrm/internal/commission"
	"github.com/andresgp/comcrm/internal/config"
	"github.com/andresgp/comcrm/internal/database"
	comcrmHttp "github.com/andresgp/comcrm/internal/http"
	commissionHandler "github.com/andresgp/comcrm/internal/http/commission"
	payoutHandler "github.com/andresgp/comcrm/internal/http/payout"
	saleHandler "github.com/andresgp/comcrm/internal/http/sale"
	"github.com/andresgp/comcrm/internal/payout"
	"github.com/andresgp/comcrm/internal/receipt"
	"github.com/andresgp/comcrm/internal/sale"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		commissionService = commission.NewService(commissionStore.New(db))
		saleService       = sale.NewService(saleStore.New(db))
		receiptService    = receipt.NewService(cfg.FileStorage.URL, cfg.FileStorage.Token)
		payoutService     = payout.NewService(commissionService)
	)

	var (
		saleH       = saleHandler.NewHandler(saleService)
		commissionH = commissionHandler.NewHandler(commissionService, receiptService)
		payoutH     = payoutHandler.NewHandler(payoutService)
	)

	router := comcrmHttp.New(saleH, commissionH, payoutH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
