package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/golcrmeter/pkg/models"
)

func TestClientSend(t *testing.T) {
	var got models.WebhookResponse
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, true)
	err := c.Send(models.WebhookItem{
		RequestID: "meas-abc123",
		BatchID:   "batch-7",
		Iteration: 3,
		Measurement: models.MeasurementRequest{
			Rref: 327.8, Freq: 1000, DeltaT: 217e-6, Vin: 8.81, Vdut: 0.17827,
		},
		Payload: models.SolvedPayload{Kind: "inductive", Q: 5.271741},
	})
	require.NoError(t, err)

	assert.Equal(t, "meas-abc123", got.ID)
	assert.Equal(t, "batch-7", got.BatchID)
	assert.Equal(t, 3, got.Iteration)
	assert.Equal(t, "inductive", got.Result.Kind)
	assert.Equal(t, 327.8, got.Measurement.Rref)
	assert.NotEmpty(t, got.Time)
}

func TestClientSendReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, true)
	err := c.Send(models.WebhookItem{RequestID: "meas-err"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
