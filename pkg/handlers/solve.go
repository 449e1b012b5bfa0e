package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kacperjurak/golcrmeter/internal/utils"
	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/models"
	"github.com/kacperjurak/golcrmeter/pkg/worker"
)

// ProcessorFunc solves one measurement request.
type ProcessorFunc func(req models.MeasurementRequest) (models.SolvedPayload, error)

// SolveHandler handles single measurement requests. A single solve is
// closed-form arithmetic, so it answers synchronously.
type SolveHandler struct {
	config     *config.Config
	workerPool *worker.Pool
	processor  ProcessorFunc
}

// NewSolveHandler creates a new single-measurement handler.
func NewSolveHandler(cfg *config.Config, pool *worker.Pool, processor ProcessorFunc) *SolveHandler {
	return &SolveHandler{
		config:     cfg,
		workerPool: pool,
		processor:  processor,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SolveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setupCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.MeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	requestID := utils.GenerateID()
	payload, err := h.processor(req)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if !h.config.Quiet {
		log.Printf("HTTP request solved - ID: %s, kind: %s", requestID, payload.Kind)
	}

	if h.workerPool != nil {
		h.workerPool.QueueWebhook(models.WebhookItem{
			RequestID:   requestID,
			Measurement: req,
			Payload:     payload,
		})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"request_id": requestID,
		"result":     payload,
	})
}

// setupCORS sets up CORS headers.
func setupCORS(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
