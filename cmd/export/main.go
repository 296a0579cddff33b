// cmd/export/main.go
package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/jpcardenas/heladeria-pos/internal/config"
	"github.com/jpcardenas/heladeria-pos/internal/extract"
	"github.com/jpcardenas/heladeria-pos/internal/repository/postgres"
	"github.com/jpcardenas/heladeria-pos/internal/storage"
	"github.com/jpcardenas/heladeria-pos/pkg/logger"
)

// The export binary serves XLSX extracts of committed sales. It runs
// separately from the main API so heavy exports never compete with the
// point-of-sale traffic.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Component("export")

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	saleRepo := postgres.NewSaleRepository(db)

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = client
	}

	r := mux.NewRouter()

	handler := extract.NewHandler(extract.NewService(saleRepo, store))
	handler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Export server starting")
	log.Fatal().Err(http.ListenAndServe(addr, r)).Msg("Export server stopped")
}
