// internal/extract/handler.go
package extract

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Handler exposes the extract endpoints on the export binary's router.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/extract/sales", h.DownloadSales).Methods("GET")
	router.HandleFunc("/api/extract/sales/archive", h.ArchiveSales).Methods("POST")
	router.HandleFunc("/api/extract/archives", h.ListArchives).Methods("GET")
}

// DownloadSales streams the XLSX extract for ?from=YYYY-MM-DD&to=YYYY-MM-DD,
// defaulting to the current month.
func (h *Handler) DownloadSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.service.BuildSalesWorkbook(r.Context(), from, to)
	if err != nil {
		log.Error().Err(err).Msg("extract: workbook build failed")
		http.Error(w, "failed to build extract", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ventas.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) ArchiveSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key, err := h.service.Archive(r.Context(), from, to)
	if err != nil {
		log.Error().Err(err).Msg("extract: archive failed")
		http.Error(w, "failed to archive extract", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := h.service.ListArchives(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("extract: archive listing failed")
		http.Error(w, "failed to list archives", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"archives": archives})
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
