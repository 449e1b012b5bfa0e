package models

import (
	"time"

	"github.com/kacperjurak/golcrmeter"
)

// MeasurementRequest is one incoming oscilloscope reading.
type MeasurementRequest struct {
	Rref   float64 `json:"rref"`
	Freq   float64 `json:"freq"`
	DeltaT float64 `json:"delta_t"`
	Vin    float64 `json:"v_in"`
	Vdut   float64 `json:"v_dut"`
}

// Measurement converts the wire format to the solver's input.
func (r MeasurementRequest) Measurement() golcrmeter.Measurement {
	return golcrmeter.Measurement{
		Rref:   r.Rref,
		Freq:   r.Freq,
		DeltaT: r.DeltaT,
		Vin:    r.Vin,
		Vdut:   r.Vdut,
	}
}

// BatchItem is a single reading with its position in the batch.
type BatchItem struct {
	Measurement MeasurementRequest `json:"measurement"`
	Iteration   int                `json:"iteration"`
}

// MeasurementBatch is a batch of readings solved concurrently.
type MeasurementBatch struct {
	BatchID      string      `json:"batch_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Measurements []BatchItem `json:"measurements"`
}

// SolvedPayload is the JSON shape of one solved circuit: raw numeric
// fields plus engineering-notation display strings keyed by field name.
// Fields the formatter could not express (non-finite) are absent from
// Display instead of being sanitized to a fake number.
type SolvedPayload struct {
	Theta    float64           `json:"theta_rad"`
	ThetaDeg float64           `json:"theta_deg"`
	Phi      float64           `json:"phi_rad"`
	PhiDeg   float64           `json:"phi_deg"`
	Z        float64           `json:"z"`
	Resr     float64           `json:"resr"`
	Rp       float64           `json:"rp"`
	X        float64           `json:"x"`
	Q        float64           `json:"q"`
	Kind     string            `json:"kind"`
	Ls       float64           `json:"ls,omitempty"`
	Lp       float64           `json:"lp,omitempty"`
	Cs       float64           `json:"cs,omitempty"`
	Cp       float64           `json:"cp,omitempty"`
	Display  map[string]string `json:"display"`
	Warning  string            `json:"warning,omitempty"`
}

// WorkItem is a single solve task handed to the worker pool.
type WorkItem struct {
	ID          int
	RequestID   string
	BatchID     string
	Iteration   int
	Measurement MeasurementRequest
	StartTime   time.Time
}

// WorkResult carries the outcome of one solve back out of the pool.
type WorkResult struct {
	ID             int
	RequestID      string
	BatchID        string
	Iteration      int
	Payload        SolvedPayload
	Err            string
	Success        bool
	ProcessingTime time.Duration
}

// WebhookItem is a result queued for asynchronous publishing.
type WebhookItem struct {
	RequestID   string
	BatchID     string
	Iteration   int
	Measurement MeasurementRequest
	Payload     SolvedPayload
}

// WebhookResponse is the payload posted to the configured webhook URL.
type WebhookResponse struct {
	ID          string             `json:"id"`
	BatchID     string             `json:"batch_id,omitempty"`
	Iteration   int                `json:"iteration"`
	Time        string             `json:"time"`
	Measurement MeasurementRequest `json:"measurement"`
	Result      SolvedPayload      `json:"result"`
}

// SolveTiming records per-item batch performance.
type SolveTiming struct {
	Iteration      int           `json:"iteration"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
	Q              float64       `json:"q"`
	Success        bool          `json:"success"`
}
