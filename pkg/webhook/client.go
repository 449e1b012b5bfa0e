package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kacperjurak/golcrmeter/pkg/models"
)

// Client posts solved measurements to a configured webhook URL, reusing
// connections across deliveries.
type Client struct {
	url        string
	httpClient *http.Client
	quiet      bool
	bufferPool sync.Pool
}

// NewClient creates a webhook client with a pooled transport.
func NewClient(url string, quiet bool) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Client{
		url:   url,
		quiet: quiet,
		httpClient: &http.Client{
			Timeout:   45 * time.Second,
			Transport: transport,
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 1024))
			},
		},
	}
}

// Send delivers one solved measurement. Payload floats are already
// sanitized by the processor, so marshaling cannot hit NaN/Inf.
func (c *Client) Send(item models.WebhookItem) error {
	payload := models.WebhookResponse{
		ID:          item.RequestID,
		BatchID:     item.BatchID,
		Iteration:   item.Iteration,
		Time:        time.Now().Format(time.RFC3339Nano),
		Measurement: item.Measurement,
		Result:      item.Payload,
	}

	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("webhook: send: %w", err)
	}
	defer resp.Body.Close()

	if !c.quiet {
		log.Printf("Webhook sent - ID: %s, kind: %s, status: %d",
			item.RequestID, item.Payload.Kind, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: request failed with status %d", resp.StatusCode)
	}
	return nil
}
