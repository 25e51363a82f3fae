package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/thesavant42/exportatlas/internal/models"
)

// maxPayloadBytes caps the size of a downloaded service list
const maxPayloadBytes = 16 << 20

// ErrPayloadTooLarge is returned when a download exceeds maxPayloadBytes
var ErrPayloadTooLarge = errors.New("payload too large")

// HTTP loads the service list from a URL with bounded retries
type HTTP struct {
	URL    string
	client *retryablehttp.Client
}

// NewHTTP creates an HTTP source. retries is the number of retries after the
// first attempt; a nil logger silences retry logging.
func NewHTTP(url string, timeout time.Duration, retries int, logger *log.Logger) *HTTP {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = timeout
	if logger != nil {
		client.Logger = leveledLogger{logger}
	} else {
		client.Logger = nil
	}

	return &HTTP{URL: url, client: client}
}

// Load fetches and decodes the service list. Any non-2xx status is an error.
func (h *HTTP) Load(ctx context.Context) ([]models.Service, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "exportatlas")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrPayloadTooLarge, h.URL, maxPayloadBytes)
	}

	services, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", h.URL, err)
	}
	return services, nil
}

func (h *HTTP) String() string {
	return h.URL
}

// leveledLogger adapts charmbracelet/log to retryablehttp.LeveledLogger
type leveledLogger struct {
	l *log.Logger
}

func (a leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	a.l.Error(msg, keysAndValues...)
}

func (a leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	a.l.Info(msg, keysAndValues...)
}

func (a leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debug(msg, keysAndValues...)
}

func (a leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	a.l.Warn(msg, keysAndValues...)
}
