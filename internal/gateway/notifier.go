package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kashtn/nail-studio/internal/metrics"
)

const (
	TargetAppointments = "appointments"
	TargetProfiles     = "profiles"
)

// Notifier pings the external synchronization gateway after a successful
// write. Notifications are fire-and-forget: no response body is read and a
// failure is only logged.
type Notifier struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *metrics.BookingMetrics
}

func NewNotifier(baseURL string, log *slog.Logger, m *metrics.BookingMetrics) *Notifier {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Notifier{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log,
		metrics:    m,
	}
}

func (n *Notifier) Notify(ctx context.Context, target string) error {
	if n == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/sync/"+target, nil)
	if err != nil {
		return err
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// NotifyAsync runs Notify in the background with its own timeout so the
// caller's request never waits on the gateway.
func (n *Notifier) NotifyAsync(target string) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.Notify(ctx, target); err != nil {
			n.metrics.ObserveSync(target, "failed")
			if n.log != nil {
				n.log.Warn("gateway sync: notify failed",
					slog.String("target", target),
					slog.String("error", err.Error()),
				)
			}
			return
		}
		n.metrics.ObserveSync(target, "ok")
	}()
}
