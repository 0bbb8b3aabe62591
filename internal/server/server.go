package server

import (
	"StockSniper/internal/models"
	"StockSniper/pkg/config"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
)

// HistoryReader is the read side of the purchase history store.
type HistoryReader interface {
	GetAttempts(limit, offset int) ([]models.PurchaseAttempt, error)
	CountAttempts() (int, error)
}

// NewMux returns the routes of the history API.
func NewMux(repo HistoryReader) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/purchases", purchasesHandler(repo))
	return mux
}

// Start serves the history API until the listener fails.
func Start(repo HistoryReader, cfg *config.Config) {
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting API server on port %s", port)
	log.Printf("Endpoint available at http://localhost:%s/purchases", port)

	if err := http.ListenAndServe(":"+port, NewMux(repo)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func purchasesHandler(repo HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20
		}
		offset := (page - 1) * limit

		total, err := repo.CountAttempts()
		if err != nil {
			http.Error(w, "Failed to count purchases", http.StatusInternalServerError)
			return
		}
		totalPages := int(math.Ceil(float64(total) / float64(limit)))

		attempts, err := repo.GetAttempts(limit, offset)
		if err != nil {
			http.Error(w, "Failed to get purchases", http.StatusInternalServerError)
			return
		}
		if attempts == nil {
			attempts = []models.PurchaseAttempt{}
		}

		response := models.HistoryResponse{
			Data: attempts,
			Pagination: models.Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
			},
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("ERROR: Failed to encode response: %v", err)
		}
	}
}
