package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kacperjurak/golcrmeter/internal/utils"
	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/models"
	"github.com/kacperjurak/golcrmeter/pkg/worker"
)

// BatchHandler handles batch measurement requests through the worker
// pool. The reply is immediate; results flow out via the webhook queue
// and the timing CSV.
type BatchHandler struct {
	config     *config.Config
	workerPool *worker.Pool
	timingPath string
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(cfg *config.Config, pool *worker.Pool) *BatchHandler {
	return &BatchHandler{
		config:     cfg,
		workerPool: pool,
		timingPath: "batch_timing_results.csv",
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setupCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var batch models.MeasurementBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if len(batch.Measurements) == 0 {
		writeError(w, "No measurements provided in batch", http.StatusBadRequest)
		return
	}

	log.Printf("🔄 Batch processing started - ID: %s, measurements: %d", batch.BatchID, len(batch.Measurements))

	go h.processBatchAsync(batch)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"batch_id":     batch.BatchID,
		"measurements": len(batch.Measurements),
		"message":      "Batch processing started with worker pool",
	})
}

func (h *BatchHandler) processBatchAsync(batch models.MeasurementBatch) {
	batchStart := time.Now()
	timings := make([]models.SolveTiming, len(batch.Measurements))
	received := 0

	for _, item := range batch.Measurements {
		h.workerPool.SubmitJob(models.WorkItem{
			ID:          item.Iteration,
			RequestID:   utils.GenerateID(),
			BatchID:     batch.BatchID,
			Iteration:   item.Iteration,
			Measurement: item.Measurement,
			StartTime:   time.Now(),
		})
	}

	for received < len(batch.Measurements) {
		result, ok := h.workerPool.GetResult()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		h.processResult(result, timings, received)
		received++
	}

	total := time.Since(batchStart)
	h.saveTimingResults(batch.BatchID, total, timings)

	log.Printf("🎉 Batch processing completed - ID: %s, total time: %v", batch.BatchID, total)
}

// processResult records timing for one result and queues its webhook.
// slot indexes the timings slice by arrival order; iterations are not
// guaranteed dense or unique in the incoming batch.
func (h *BatchHandler) processResult(result models.WorkResult, timings []models.SolveTiming, slot int) {
	timings[slot] = models.SolveTiming{
		Iteration:      result.Iteration,
		ProcessingTime: result.ProcessingTime,
		Q:              result.Payload.Q,
		Success:        result.Success,
	}

	if !result.Success {
		log.Printf("❌ Measurement iteration %d rejected: %s", result.Iteration, result.Err)
		return
	}

	h.workerPool.QueueWebhook(models.WebhookItem{
		RequestID: fmt.Sprintf("%s_iter_%03d", result.RequestID, result.Iteration),
		BatchID:   result.BatchID,
		Iteration: result.Iteration,
		Payload:   result.Payload,
	})

	if !h.config.Quiet {
		log.Printf("✅ Solved measurement iteration %d (%s)", result.Iteration, result.Payload.Kind)
	}
}

// saveTimingResults appends one summary row per batch to the timing CSV.
func (h *BatchHandler) saveTimingResults(batchID string, total time.Duration, timings []models.SolveTiming) {
	var writeHeader bool
	if _, err := os.Stat(h.timingPath); os.IsNotExist(err) {
		writeHeader = true
	}

	file, err := os.OpenFile(h.timingPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Error opening timing file: %v", err)
		return
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if writeHeader {
		header := []string{
			"Timestamp",
			"BatchID",
			"Measurements",
			"TotalBatchTime_ms",
			"AvgSolveTime_ms",
			"MinSolveTime_ms",
			"MaxSolveTime_ms",
			"SuccessRate",
			"MinQ",
			"MaxQ",
			"MeanQ",
		}
		if err := writer.Write(header); err != nil {
			log.Printf("Error writing timing header: %v", err)
			return
		}
	}

	times := make([]float64, len(timings))
	var qs []float64
	successful := 0
	for i, tm := range timings {
		times[i] = float64(tm.ProcessingTime.Nanoseconds()) / 1e6
		if tm.Success {
			successful++
			qs = append(qs, tm.Q)
		}
	}

	successRate := float64(successful) / float64(len(timings)) * 100
	minQ, maxQ, meanQ := 0.0, 0.0, 0.0
	if len(qs) > 0 {
		minQ = floats.Min(qs)
		maxQ = floats.Max(qs)
		meanQ = floats.Sum(qs) / float64(len(qs))
	}

	record := []string{
		time.Now().Format(time.RFC3339),
		batchID,
		fmt.Sprintf("%d", len(timings)),
		fmt.Sprintf("%.2f", float64(total.Nanoseconds())/1e6),
		fmt.Sprintf("%.3f", floats.Sum(times)/float64(len(times))),
		fmt.Sprintf("%.3f", floats.Min(times)),
		fmt.Sprintf("%.3f", floats.Max(times)),
		fmt.Sprintf("%.1f", successRate),
		fmt.Sprintf("%.4f", minQ),
		fmt.Sprintf("%.4f", maxQ),
		fmt.Sprintf("%.4f", meanQ),
	}
	if err := writer.Write(record); err != nil {
		log.Printf("Error writing timing record: %v", err)
		return
	}

	log.Printf("📊 Timing saved: %d measurements, %.2f ms total, %.1f%% success",
		len(timings), float64(total.Nanoseconds())/1e6, successRate)
}
